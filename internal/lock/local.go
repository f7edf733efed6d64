package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type lease struct {
	token   string
	expires time.Time
}

// Local is an in-process Locker with the same lease semantics as RedisLock.
type Local struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

func NewLocal() *Local {
	return &Local{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

func (l *Local) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.leases[key]; ok && now.Before(held.expires) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.leases[key] = lease{token: token, expires: now.Add(ttl)}

	return token, true, nil
}

func (l *Local) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.leases[key]; ok && held.token == token {
		delete(l.leases, key)
	}

	return nil
}

// Acquire polls locker every retry until the lease is taken or ctx is done.
// It returns the lease token to pass to Unlock.
func Acquire(ctx context.Context, locker Locker, key string, ttl, retry time.Duration) (string, error) {
	ticker := time.NewTicker(retry)
	defer ticker.Stop()

	for {
		token, ok, err := locker.Lock(ctx, key, ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
