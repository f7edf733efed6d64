package postgres

import "context"

func Truncate(ctx context.Context, s *Storage) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE bookings, requests RESTART IDENTITY`)
	return err
}
