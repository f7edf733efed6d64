package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tutor-service/internal/lock"
	"tutor-service/internal/models"
	"tutor-service/pkg/sl"
)

// Reservation states, as they appear in the "state" log attribute.
const (
	stateReceived  = "received"
	stateValidated = "validated"
	stateCommitted = "committed"
	stateRejected  = "rejected"
)

// catalogLockKey guards the whole snapshot file. Every commit rewrites the
// full catalog, so processes sharing the file must not write concurrently
// even for different tutors.
const catalogLockKey = "catalog:snapshot"

// Reserve books one weekday/time cell of a tutor's grid.
//
// The attempt is validated first (tutor exists, weekday code, non-empty
// client fields). It then takes the catalog lease and asks the catalog to
// re-read the snapshot, flip the cell and write the snapshot back. Only after that write succeeds is the
// booking appended to the ledger. A lost race returns ErrSlotTaken; a ledger
// failure after the snapshot returns the record with ErrLedgerUnconfirmed,
// since the grid is already durably booked.
func (s *Service) Reserve(ctx context.Context, req models.ReservationRequest) (models.BookingRecord, error) {
	const op = "service.Reserve"

	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.Time = strings.TrimSpace(req.Time)

	log := s.log.With(
		slog.String("op", op),
		slog.Int("tutor_id", req.TutorID),
		slog.String("weekday", string(req.Weekday)),
		slog.String("time", req.Time),
	)
	log.Debug("reservation received", slog.String("state", stateReceived))

	if err := s.validateReservation(req); err != nil {
		log.Info("reservation rejected", slog.String("state", stateRejected), sl.Err(err))
		return models.BookingRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Debug("reservation validated", slog.String("state", stateValidated))

	key := catalogLockKey
	token, err := lock.Acquire(ctx, s.locker, key, s.opts.LockTTL, s.opts.LockRetry)
	if err != nil {
		log.Warn("failed to acquire reservation lock", sl.Err(err))
		if ctx.Err() != nil {
			return models.BookingRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrLocked, err)
		}
		return models.BookingRecord{}, fmt.Errorf("%s: lock: %w", op, err)
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			log.Warn("failed to release reservation lock", sl.Err(err))
		}
	}()

	if err := s.catalog.Reserve(ctx, req.TutorID, req.Weekday, req.Time); err != nil {
		return models.BookingRecord{}, fmt.Errorf("%s: %w", op, s.rejection(log, req, err))
	}

	rec := models.BookingRecord{
		ID:          s.newID(),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		TutorID:     req.TutorID,
		Weekday:     req.Weekday,
		Time:        req.Time,
		CreatedAt:   s.now().UTC(),
	}

	// The cell is durably booked now; finish the audit write even if the
	// client has gone away.
	stored, err := s.ledger.AppendBooking(context.WithoutCancel(ctx), rec)
	if err != nil {
		log.Error("booking committed but ledger append failed",
			slog.String("booking_id", rec.ID.String()),
			sl.Err(err),
		)
		return rec, fmt.Errorf("%s: %w: %w", op, models.ErrLedgerUnconfirmed, err)
	}

	log.Info("reservation committed",
		slog.String("state", stateCommitted),
		slog.Int64("seq", stored.Seq),
		slog.String("booking_id", stored.ID.String()),
	)

	return stored, nil
}

func (s *Service) validateReservation(req models.ReservationRequest) error {
	var verr models.ValidationError

	if !req.Weekday.Valid() {
		verr.Add("weekday", fmt.Sprintf("unknown weekday %q", req.Weekday))
	}
	if req.Time == "" {
		verr.Add("time", "is required")
	}
	if req.ClientName == "" {
		verr.Add("client_name", "is required")
	}
	if req.ClientPhone == "" {
		verr.Add("client_phone", "is required")
	}

	if _, err := s.catalog.TutorByID(req.TutorID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		verr.Add("tutor_id", fmt.Sprintf("tutor %d not found", req.TutorID))
		return fmt.Errorf("%w: %w", &verr, err)
	}

	return verr.Err()
}

// rejection maps a failed catalog reservation onto the caller-facing outcome.
func (s *Service) rejection(log *slog.Logger, req models.ReservationRequest, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidSlot):
		log.Info("reservation rejected", slog.String("state", stateRejected), slog.String("reason", "slot not offered"))
		var verr models.ValidationError
		verr.Add("time", fmt.Sprintf("%s %s is not offered by tutor %d", req.Weekday, req.Time, req.TutorID))
		return fmt.Errorf("%w: %w", &verr, err)
	case errors.Is(err, models.ErrSlotUnavailable):
		log.Info("reservation rejected", slog.String("state", stateRejected), slog.String("reason", "slot taken"))
		return fmt.Errorf("%w: %s %s", models.ErrSlotTaken, req.Weekday, req.Time)
	case errors.Is(err, models.ErrNotFound):
		log.Info("reservation rejected", slog.String("state", stateRejected), slog.String("reason", "tutor removed"))
		var verr models.ValidationError
		verr.Add("tutor_id", fmt.Sprintf("tutor %d not found", req.TutorID))
		return fmt.Errorf("%w: %w", &verr, err)
	default:
		log.Error("failed to commit reservation", sl.Err(err))
		return err
	}
}
