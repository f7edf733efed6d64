package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"tutor-service/internal/models"
)

// Ledger keeps bookings and contact requests in two JSON arrays. Each append
// reads the whole file and rewrites it, so the files only ever grow.
type Ledger struct {
	mu           sync.Mutex
	bookingsPath string
	requestsPath string
}

func NewLedger(bookingsPath, requestsPath string) *Ledger {
	return &Ledger{bookingsPath: bookingsPath, requestsPath: requestsPath}
}

func (l *Ledger) AppendBooking(_ context.Context, rec models.BookingRecord) (models.BookingRecord, error) {
	const op = "storage.file.Ledger.AppendBooking"

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := readRecords[models.BookingRecord](l.bookingsPath)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}

	rec.Seq = 1
	if n := len(records); n > 0 {
		rec.Seq = records[n-1].Seq + 1
	}
	records = append(records, rec)

	if err := writeJSONAtomic(l.bookingsPath, records); err != nil {
		return models.BookingRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}

	return rec, nil
}

func (l *Ledger) AppendRequest(_ context.Context, rec models.RequestRecord) (models.RequestRecord, error) {
	const op = "storage.file.Ledger.AppendRequest"

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := readRecords[models.RequestRecord](l.requestsPath)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}

	rec.Seq = 1
	if n := len(records); n > 0 {
		rec.Seq = records[n-1].Seq + 1
	}
	records = append(records, rec)

	if err := writeJSONAtomic(l.requestsPath, records); err != nil {
		return models.RequestRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}

	return rec, nil
}

func (l *Ledger) Bookings(_ context.Context) ([]models.BookingRecord, error) {
	const op = "storage.file.Ledger.Bookings"

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := readRecords[models.BookingRecord](l.bookingsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (l *Ledger) Requests(_ context.Context) ([]models.RequestRecord, error) {
	const op = "storage.file.Ledger.Requests"

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := readRecords[models.RequestRecord](l.requestsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// readRecords returns an empty slice for a file that does not exist yet.
func readRecords[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrCorruptData, path, err)
	}
	if records == nil {
		records = []T{}
	}

	return records, nil
}
