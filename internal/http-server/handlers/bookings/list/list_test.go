package list_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-service/internal/http-server/handlers/bookings/list"
	"tutor-service/internal/models"
)

type listerFunc func(ctx context.Context) ([]models.BookingRecord, error)

func (f listerFunc) ListBookings(ctx context.Context) ([]models.BookingRecord, error) {
	return f(ctx)
}

func TestList(t *testing.T) {
	h := list.New(slog.New(slog.NewTextHandler(io.Discard, nil)), listerFunc(func(context.Context) ([]models.BookingRecord, error) {
		return []models.BookingRecord{
			{Seq: 1, ID: uuid.New(), TutorID: 1, Weekday: models.Monday, Time: "10:00"},
			{Seq: 2, ID: uuid.New(), TutorID: 2, Weekday: models.Friday, Time: "8:00"},
		}, nil
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bookings []struct {
			Seq          int64  `json:"seq"`
			WeekdayLabel string `json:"weekday_label"`
		} `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, int64(2), resp.Bookings[1].Seq)
	assert.Equal(t, "Пятница", resp.Bookings[1].WeekdayLabel)
}

func TestList_EmptyIsArray(t *testing.T) {
	h := list.New(slog.New(slog.NewTextHandler(io.Discard, nil)), listerFunc(func(context.Context) ([]models.BookingRecord, error) {
		return nil, nil
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

func TestList_Error(t *testing.T) {
	h := list.New(slog.New(slog.NewTextHandler(io.Discard, nil)), listerFunc(func(context.Context) ([]models.BookingRecord, error) {
		return nil, errors.Join(models.ErrPersistence, io.ErrUnexpectedEOF)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "PERSISTENCE_ERROR")
}
