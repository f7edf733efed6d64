package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-service/internal/models"
	"tutor-service/internal/storage/postgres"
)

// newStorage connects to TEST_DATABASE_URL and empties the ledger tables.
// Tests skip cleanly when no database is configured.
func newStorage(t *testing.T) *postgres.Storage {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, postgres.Truncate(ctx, s))

	return s
}

func TestStorage_AppendBooking(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	first, err := s.AppendBooking(ctx, models.BookingRecord{
		ID: uuid.New(), ClientName: "A", ClientPhone: "1", TutorID: 1,
		Weekday: models.Monday, Time: "10:00", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	second, err := s.AppendBooking(ctx, models.BookingRecord{
		ID: uuid.New(), ClientName: "B", ClientPhone: "2", TutorID: 1,
		Weekday: models.Monday, Time: "12:00", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Greater(t, second.Seq, first.Seq)

	got, err := s.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, models.Monday, got[0].Weekday)
	assert.Equal(t, "12:00", got[1].Time)
}

func TestStorage_AppendBooking_DuplicateID(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	rec := models.BookingRecord{ID: uuid.New(), ClientName: "A", ClientPhone: "1", TutorID: 1,
		Weekday: models.Monday, Time: "10:00", CreatedAt: time.Now().UTC()}

	_, err := s.AppendBooking(ctx, rec)
	require.NoError(t, err)
	_, err = s.AppendBooking(ctx, rec)

	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.ErrorContains(t, err, "duplicate record id")
}

func TestStorage_Requests(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	rec, err := s.AppendRequest(ctx, models.RequestRecord{
		ID: uuid.New(), ClientName: "C", ClientPhone: "3", Goal: "travel", Hours: "1-2", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Positive(t, rec.Seq)

	got, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "travel", got[0].Goal)
	assert.Equal(t, "1-2", got[0].Hours)
}
