package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-service/internal/catalog"
	"tutor-service/internal/models"
	"tutor-service/internal/storage/file"
)

// ---- fake Persister --------------------------------------------------------

type memPersister struct {
	mu        sync.Mutex
	stored    *models.Catalog
	restore   error
	snapErr   error
	snapshots int
}

func (m *memPersister) Snapshot(_ context.Context, c models.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapErr != nil {
		return m.snapErr
	}
	cp := c.Clone()
	m.stored = &cp
	m.snapshots++
	return nil
}

func (m *memPersister) Restore(_ context.Context) (models.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restore != nil {
		return models.Catalog{}, m.restore
	}
	if m.stored == nil {
		return models.Catalog{}, models.ErrNotFound
	}
	return m.stored.Clone(), nil
}

var _ catalog.Persister = (*memPersister)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func oneTutor() models.Catalog {
	return models.Catalog{
		Goals: models.DefaultGoals,
		Tutors: []models.Tutor{{
			ID:    1,
			Name:  "T1",
			Goals: []string{"travel"},
			Free:  models.Availability{models.Monday: {"10:00": true, "12:00": true}},
		}},
	}
}

func countingSeed(n *atomic.Int32, c models.Catalog) func() models.Catalog {
	return func() models.Catalog {
		n.Add(1)
		return c.Clone()
	}
}

// ---- Load ------------------------------------------------------------------

func TestStore_Load_SeedsOnce(t *testing.T) {
	p := &memPersister{}
	var seeds atomic.Int32
	s := catalog.New(discardLogger(), p, countingSeed(&seeds, oneTutor()))

	first, err := s.Load(context.Background())
	require.NoError(t, err)
	second, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, seeds.Load())
	assert.Equal(t, 1, p.snapshots)
	assert.Equal(t, first, second)
}

func TestStore_Load_EmptySnapshotIsNotReseeded(t *testing.T) {
	p := &memPersister{stored: &models.Catalog{}}
	var seeds atomic.Int32
	s := catalog.New(discardLogger(), p, countingSeed(&seeds, oneTutor()))

	c, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, c.Tutors)
	assert.Zero(t, seeds.Load())
}

func TestStore_Load_CorruptIsFatal(t *testing.T) {
	p := &memPersister{restore: models.ErrCorruptData}
	var seeds atomic.Int32
	s := catalog.New(discardLogger(), p, countingSeed(&seeds, oneTutor()))

	_, err := s.Load(context.Background())

	assert.ErrorIs(t, err, models.ErrCorruptData)
	assert.Zero(t, seeds.Load(), "corrupt data must never fall back to the default dataset")
	assert.Zero(t, p.snapshots)
}

func TestStore_Load_SeedWriteFails(t *testing.T) {
	p := &memPersister{snapErr: models.ErrPersistence}
	s := catalog.New(discardLogger(), p, catalog.DefaultCatalog)

	_, err := s.Load(context.Background())

	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestStore_Load_VanishedSnapshotKeepsBookings(t *testing.T) {
	p := &memPersister{}
	var seeds atomic.Int32
	s := catalog.New(discardLogger(), p, countingSeed(&seeds, oneTutor()))
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Reserve(ctx, 1, models.Monday, "10:00"))

	p.stored = nil
	c, err := s.Load(ctx)

	require.NoError(t, err)
	assert.EqualValues(t, 1, seeds.Load())
	assert.False(t, c.Tutors[0].Free[models.Monday]["10:00"])
}

// ---- Reserve ---------------------------------------------------------------

func TestStore_Reserve_FlipsAndSnapshots(t *testing.T) {
	p := &memPersister{}
	s := catalog.New(discardLogger(), p, oneTutor)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Reserve(ctx, 1, models.Monday, "10:00"))

	tutor, err := s.TutorByID(1)
	require.NoError(t, err)
	assert.False(t, tutor.Free[models.Monday]["10:00"])
	assert.True(t, tutor.Free[models.Monday]["12:00"])
	assert.False(t, p.stored.Tutors[0].Free[models.Monday]["10:00"], "snapshot must contain the flip")
}

func TestStore_Reserve_Errors(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, oneTutor)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Reserve(ctx, 1, models.Monday, "10:00"))

	err = s.Reserve(ctx, 1, models.Monday, "10:00")
	assert.ErrorIs(t, err, models.ErrSlotUnavailable)

	err = s.Reserve(ctx, 1, models.Monday, "9:00")
	assert.ErrorIs(t, err, models.ErrSlotUnavailable)
	assert.ErrorIs(t, err, models.ErrInvalidSlot)

	err = s.Reserve(ctx, 999, models.Monday, "10:00")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_Reserve_SnapshotFailureUndoesFlip(t *testing.T) {
	p := &memPersister{}
	s := catalog.New(discardLogger(), p, oneTutor)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	p.snapErr = errors.New("disk full")
	err = s.Reserve(ctx, 1, models.Monday, "10:00")

	assert.ErrorIs(t, err, models.ErrPersistence)
	tutor, err := s.TutorByID(1)
	require.NoError(t, err)
	assert.True(t, tutor.Free[models.Monday]["10:00"])

	p.snapErr = nil
	require.NoError(t, s.Reserve(ctx, 1, models.Monday, "10:00"), "slot is still bookable once writes recover")
}

func TestStore_Reserve_ConcurrentSingleWinner(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, oneTutor)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	const n = 50
	var wins, losses atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Reserve(ctx, 1, models.Monday, "12:00")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, models.ErrSlotUnavailable):
				losses.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.EqualValues(t, n-1, losses.Load())
}

func TestStore_Reserve_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s := catalog.New(discardLogger(), file.NewSnapshotStore(path), oneTutor)
	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Reserve(ctx, 1, models.Monday, "10:00"))

	restarted := catalog.New(discardLogger(), file.NewSnapshotStore(path), oneTutor)
	c, err := restarted.Load(ctx)

	require.NoError(t, err)
	assert.False(t, c.Tutors[0].Free[models.Monday]["10:00"])
	assert.True(t, c.Tutors[0].Free[models.Monday]["12:00"])
}

func TestStore_Reserve_SeesWritesFromSharedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	a := catalog.New(discardLogger(), file.NewSnapshotStore(path), oneTutor)
	_, err := a.Load(ctx)
	require.NoError(t, err)
	b := catalog.New(discardLogger(), file.NewSnapshotStore(path), oneTutor)
	_, err = b.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Reserve(ctx, 1, models.Monday, "10:00"))

	err = b.Reserve(ctx, 1, models.Monday, "10:00")
	assert.ErrorIs(t, err, models.ErrSlotUnavailable)

	require.NoError(t, b.Reserve(ctx, 1, models.Monday, "12:00"))

	c, err := catalog.New(discardLogger(), file.NewSnapshotStore(path), oneTutor).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Tutors[0].Free.FreeCount(), "neither write may be lost")
}

func TestStore_Reserve_CorruptSnapshotFailsReserve(t *testing.T) {
	p := &memPersister{}
	s := catalog.New(discardLogger(), p, oneTutor)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	p.restore = models.ErrCorruptData
	err = s.Reserve(ctx, 1, models.Monday, "10:00")

	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.ErrorIs(t, err, models.ErrCorruptData)
	assert.Equal(t, 1, p.snapshots, "nothing written over an unreadable snapshot")
}

// ---- Save ------------------------------------------------------------------

func TestStore_Save_ReplacesWholeDataset(t *testing.T) {
	p := &memPersister{}
	s := catalog.New(discardLogger(), p, catalog.DefaultCatalog)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, oneTutor()))

	assert.Len(t, s.Catalog().Tutors, 1)
	assert.Len(t, p.stored.Tutors, 1)
	_, err = s.TutorByID(2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_Save_RejectsInvalid(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, oneTutor)

	bad := oneTutor()
	bad.Tutors = append(bad.Tutors, bad.Tutors[0])

	assert.ErrorIs(t, s.Save(context.Background(), bad), models.ErrValidation)
}

func TestStore_Save_FailureKeepsOldState(t *testing.T) {
	p := &memPersister{}
	s := catalog.New(discardLogger(), p, catalog.DefaultCatalog)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	p.snapErr = errors.New("read-only fs")
	err = s.Save(ctx, oneTutor())

	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Len(t, s.Catalog().Tutors, len(catalog.DefaultCatalog().Tutors))
}

// ---- reads -----------------------------------------------------------------

func TestStore_TutorByID_ReturnsCopy(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, oneTutor)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	tutor, err := s.TutorByID(1)
	require.NoError(t, err)
	tutor.Free[models.Monday]["10:00"] = false

	again, err := s.TutorByID(1)
	require.NoError(t, err)
	assert.True(t, again.Free[models.Monday]["10:00"], "callers must not mutate the owned grid")
}

func TestStore_Tutors_Sorted(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, catalog.DefaultCatalog)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	best := s.Tutors(catalog.SortBest)
	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, best[i-1].Rating, best[i].Rating)
	}

	cheap := s.Tutors(catalog.SortCheap)
	for i := 1; i < len(cheap); i++ {
		assert.LessOrEqual(t, cheap[i-1].Price, cheap[i].Price)
	}

	expensive := s.Tutors(catalog.SortExpensive)
	for i := 1; i < len(expensive); i++ {
		assert.GreaterOrEqual(t, expensive[i-1].Price, expensive[i].Price)
	}

	assert.Len(t, s.Tutors(catalog.SortRandom), len(best))
}

func TestStore_TutorsByGoal(t *testing.T) {
	s := catalog.New(discardLogger(), &memPersister{}, catalog.DefaultCatalog)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	coding, err := s.TutorsByGoal("coding")
	require.NoError(t, err)
	require.NotEmpty(t, coding)
	for _, tutor := range coding {
		assert.True(t, tutor.HasGoal("coding"))
	}

	_, err = s.TutorsByGoal("cooking")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestParseSortOrder(t *testing.T) {
	o, err := catalog.ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortRandom, o)

	o, err = catalog.ParseSortOrder("cheap")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortCheap, o)

	_, err = catalog.ParseSortOrder("alphabetical")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDefaultCatalog_IsValid(t *testing.T) {
	c := catalog.DefaultCatalog()

	require.NoError(t, c.Validate())
	for _, tutor := range c.Tutors {
		for _, day := range models.Weekdays {
			for _, slot := range models.DefaultSlots {
				_, err := tutor.Free.IsFree(day, slot)
				assert.NoError(t, err, "tutor %d must define %s %s", tutor.ID, day, slot)
			}
		}
	}
}
