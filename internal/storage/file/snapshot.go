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

// SnapshotStore persists the whole catalog as a single JSON document.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Snapshot overwrites the stored catalog with c.
func (s *SnapshotStore) Snapshot(_ context.Context, c models.Catalog) error {
	const op = "storage.file.SnapshotStore.Snapshot"

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Goals == nil {
		c.Goals = []models.Goal{}
	}
	if c.Tutors == nil {
		c.Tutors = []models.Tutor{}
	}

	if err := writeJSONAtomic(s.path, c); err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
	}

	return nil
}

// Restore reads the stored catalog back. A missing file yields ErrNotFound;
// anything that exists but cannot be trusted yields ErrCorruptData.
func (s *SnapshotStore) Restore(_ context.Context) (models.Catalog, error) {
	const op = "storage.file.SnapshotStore.Restore"

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Catalog{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return models.Catalog{}, fmt.Errorf("%s: %w: %w", op, models.ErrCorruptData, err)
	}

	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w: %w", op, models.ErrCorruptData, err)
	}

	if err := c.Validate(); err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w: %w", op, models.ErrCorruptData, err)
	}

	return c, nil
}
