package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tutor-service/internal/catalog"
	"tutor-service/internal/lock"
	"tutor-service/internal/models"
)

type Catalog interface {
	TutorByID(id int) (models.Tutor, error)
	Reserve(ctx context.Context, tutorID int, day models.Weekday, slot string) error
	Goals() []models.Goal
	Tutors(order catalog.SortOrder) []models.Tutor
	TutorsByGoal(goal string) ([]models.Tutor, error)
}

type Ledger interface {
	AppendBooking(ctx context.Context, rec models.BookingRecord) (models.BookingRecord, error)
	AppendRequest(ctx context.Context, rec models.RequestRecord) (models.RequestRecord, error)
	Bookings(ctx context.Context) ([]models.BookingRecord, error)
	Requests(ctx context.Context) ([]models.RequestRecord, error)
}

type Options struct {
	LockTTL   time.Duration
	LockRetry time.Duration
}

type Service struct {
	log     *slog.Logger
	catalog Catalog
	ledger  Ledger
	locker  lock.Locker
	opts    Options

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(log *slog.Logger, catalog Catalog, ledger Ledger, locker lock.Locker, opts Options) *Service {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	if opts.LockRetry <= 0 {
		opts.LockRetry = 20 * time.Millisecond
	}

	return &Service{
		log:     log,
		catalog: catalog,
		ledger:  ledger,
		locker:  locker,
		opts:    opts,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// Catalog reads

func (s *Service) Goals() []models.Goal {
	return s.catalog.Goals()
}

func (s *Service) ListTutors(sort string) ([]models.Tutor, error) {
	const op = "service.ListTutors"

	order, err := catalog.ParseSortOrder(sort)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.catalog.Tutors(order), nil
}

func (s *Service) TutorsByGoal(goal string) ([]models.Tutor, error) {
	const op = "service.TutorsByGoal"

	tutors, err := s.catalog.TutorsByGoal(goal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tutors, nil
}

func (s *Service) GetTutor(id int) (models.Tutor, error) {
	const op = "service.GetTutor"

	tutor, err := s.catalog.TutorByID(id)
	if err != nil {
		return models.Tutor{}, fmt.Errorf("%s: %w", op, err)
	}

	return tutor, nil
}

// Ledger reads

func (s *Service) ListBookings(ctx context.Context) ([]models.BookingRecord, error) {
	const op = "service.ListBookings"

	records, err := s.ledger.Bookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (s *Service) ListRequests(ctx context.Context) ([]models.RequestRecord, error) {
	const op = "service.ListRequests"

	records, err := s.ledger.Requests(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}
