package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"tutor-service/internal/models"
	"tutor-service/internal/storage/postgres/migrations"
)

// Storage is the postgres ledger. Sequence numbers come from BIGSERIAL
// columns, so they increase monotonically across replicas.
type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgres.Migrate"

	provider, err := goose.NewProvider(goose.DialectPostgres, s.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### bookings ####

func (s *Storage) AppendBooking(ctx context.Context, rec models.BookingRecord) (models.BookingRecord, error) {
	const op = "storage.postgres.AppendBooking"

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO bookings
		(id, client_name, client_phone, tutor_id, weekday, slot_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`,
		rec.ID,
		rec.ClientName,
		rec.ClientPhone,
		rec.TutorID,
		string(rec.Weekday),
		rec.Time,
		rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, describe(err))
	}

	return rec, nil
}

func (s *Storage) Bookings(ctx context.Context) ([]models.BookingRecord, error) {
	const op = "storage.postgres.Bookings"

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, client_name, client_phone, tutor_id, weekday, slot_time, created_at
		FROM bookings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := []models.BookingRecord{}
	for rows.Next() {
		var rec models.BookingRecord
		var weekday string
		err := rows.Scan(
			&rec.Seq,
			&rec.ID,
			&rec.ClientName,
			&rec.ClientPhone,
			&rec.TutorID,
			&weekday,
			&rec.Time,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rec.Weekday = models.Weekday(weekday)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// #### requests ####

func (s *Storage) AppendRequest(ctx context.Context, rec models.RequestRecord) (models.RequestRecord, error) {
	const op = "storage.postgres.AppendRequest"

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO requests
		(id, client_name, client_phone, goal, hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		rec.ID,
		rec.ClientName,
		rec.ClientPhone,
		rec.Goal,
		rec.Hours,
		rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, describe(err))
	}

	return rec, nil
}

func (s *Storage) Requests(ctx context.Context) ([]models.RequestRecord, error) {
	const op = "storage.postgres.Requests"

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, client_name, client_phone, goal, hours, created_at
		FROM requests ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := []models.RequestRecord{}
	for rows.Next() {
		var rec models.RequestRecord
		err := rows.Scan(
			&rec.Seq,
			&rec.ID,
			&rec.ClientName,
			&rec.ClientPhone,
			&rec.Goal,
			&rec.Hours,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// describe names the common constraint failures so they read well in logs.
func describe(err error) error {
	var sqlErr *pq.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == "23505" {
		return fmt.Errorf("duplicate record id: %w", err)
	}

	return err
}
