// Package catalog owns the goals and tutors, including every tutor's
// availability grid, for the lifetime of the process.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"tutor-service/internal/models"
	"tutor-service/pkg/sl"
)

type Persister interface {
	Snapshot(ctx context.Context, c models.Catalog) error
	Restore(ctx context.Context) (models.Catalog, error)
}

type SortOrder string

const (
	SortRandom    SortOrder = "randomly"
	SortBest      SortOrder = "best"
	SortExpensive SortOrder = "expensive"
	SortCheap     SortOrder = "cheap"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortRandom, SortBest, SortExpensive, SortCheap:
		return o, nil
	case "":
		return SortRandom, nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %q", models.ErrValidation, s)
	}
}

type Store struct {
	mu        sync.RWMutex
	log       *slog.Logger
	persister Persister
	seed      func() models.Catalog

	catalog models.Catalog
	index   map[int]int
	seeded  bool
}

// New builds an empty store. Call Load before serving reads.
func New(log *slog.Logger, persister Persister, seed func() models.Catalog) *Store {
	return &Store{
		log:       log.With(slog.String("component", "catalog")),
		persister: persister,
		seed:      seed,
		index:     map[int]int{},
	}
}

// Load restores the durable snapshot. When none exists the default dataset is
// written once; a corrupt snapshot is returned as an error and never reseeded.
func (s *Store) Load(ctx context.Context) (models.Catalog, error) {
	const op = "catalog.Store.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.persister.Restore(ctx)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound) && s.seeded:
		// The snapshot vanished after we seeded it. The in-memory state is newer
		// than any default, so write it back instead of seeding again.
		s.log.Warn("snapshot missing after seeding, rewriting in-memory catalog")
		if err := s.persister.Snapshot(ctx, s.catalog); err != nil {
			return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
		}
		return s.catalog.Clone(), nil
	case errors.Is(err, models.ErrNotFound):
		c = s.seed()
		if err := s.persister.Snapshot(ctx, c); err != nil {
			return models.Catalog{}, fmt.Errorf("%s: seed: %w", op, err)
		}
		s.seeded = true
		s.log.Info("catalog seeded with default dataset", slog.Int("tutors", len(c.Tutors)))
	default:
		s.log.Error("failed to restore catalog", sl.Err(err))
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	s.replace(c)

	return c.Clone(), nil
}

// Save replaces the whole dataset. The snapshot is written first so a failed
// write leaves memory and disk in agreement.
func (s *Store) Save(ctx context.Context, c models.Catalog) error {
	const op = "catalog.Store.Save"

	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c = c.Clone()
	if err := s.persister.Snapshot(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, persistenceErr(err))
	}

	s.replace(c)

	return nil
}

// Reserve books one cell and writes the snapshot while still holding the
// write lock, so the check, the flip and the durable write are one step for
// every other caller. The snapshot is re-read first, so bookings written by
// other processes sharing the file are seen; callers serialize those
// processes with a lease around the whole call. If the write fails the flip
// is undone before unlocking.
func (s *Store) Reserve(ctx context.Context, tutorID int, day models.Weekday, slot string) error {
	const op = "catalog.Store.Reserve"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, persistenceErr(err))
	}

	pos, ok := s.index[tutorID]
	if !ok {
		return fmt.Errorf("%s: tutor %d: %w", op, tutorID, models.ErrNotFound)
	}
	t := &s.catalog.Tutors[pos]

	prev := t.Free.Clone()
	if err := t.Free.Reserve(day, slot); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.persister.Snapshot(ctx, s.catalog); err != nil {
		t.Free = prev
		return fmt.Errorf("%s: %w", op, persistenceErr(err))
	}

	return nil
}

func (s *Store) TutorByID(id int) (models.Tutor, error) {
	const op = "catalog.Store.TutorByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.Tutor{}, fmt.Errorf("%s: tutor %d: %w", op, id, models.ErrNotFound)
	}

	return s.catalog.Tutors[pos].Clone(), nil
}

// Catalog returns a consistent deep copy of the current dataset.
func (s *Store) Catalog() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.Clone()
}

func (s *Store) Goals() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Goal(nil), s.catalog.Goals...)
}

func (s *Store) Tutors(order SortOrder) []models.Tutor {
	tutors := s.Catalog().Tutors
	sortTutors(tutors, order)

	return tutors
}

// TutorsByGoal returns tutors teaching for goal, best rated first.
func (s *Store) TutorsByGoal(goal string) ([]models.Tutor, error) {
	const op = "catalog.Store.TutorsByGoal"

	c := s.Catalog()
	if !c.HasGoal(goal) {
		return nil, fmt.Errorf("%s: goal %q: %w", op, goal, models.ErrNotFound)
	}

	out := make([]models.Tutor, 0, len(c.Tutors))
	for _, t := range c.Tutors {
		if t.HasGoal(goal) {
			out = append(out, t)
		}
	}
	sortTutors(out, SortBest)

	return out, nil
}

// refresh replaces the in-memory dataset with the durable snapshot.
// A missing snapshot keeps memory as is; the next write restores the file.
// Caller holds s.mu for writing.
func (s *Store) refresh(ctx context.Context) error {
	c, err := s.persister.Restore(ctx)
	switch {
	case err == nil:
		s.replace(c)
		return nil
	case errors.Is(err, models.ErrNotFound):
		s.log.Warn("snapshot missing on reserve, keeping in-memory catalog")
		return nil
	default:
		s.log.Error("failed to refresh catalog", sl.Err(err))
		return err
	}
}

func (s *Store) replace(c models.Catalog) {
	s.catalog = c
	s.index = make(map[int]int, len(c.Tutors))
	for i, t := range c.Tutors {
		s.index[t.ID] = i
	}
}

func sortTutors(tutors []models.Tutor, order SortOrder) {
	switch order {
	case SortBest:
		slices.SortStableFunc(tutors, func(a, b models.Tutor) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortExpensive:
		slices.SortStableFunc(tutors, func(a, b models.Tutor) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortCheap:
		slices.SortStableFunc(tutors, func(a, b models.Tutor) int {
			return cmp.Compare(a.Price, b.Price)
		})
	default:
		rand.Shuffle(len(tutors), func(i, j int) {
			tutors[i], tutors[j] = tutors[j], tutors[i]
		})
	}
}

func persistenceErr(err error) error {
	if errors.Is(err, models.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrPersistence, err)
}
