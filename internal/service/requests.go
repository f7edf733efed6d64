package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tutor-service/internal/models"
	"tutor-service/pkg/sl"
)

// SubmitRequest appends a contact request to the ledger.
func (s *Service) SubmitRequest(ctx context.Context, req models.ContactRequest) (models.RequestRecord, error) {
	const op = "service.SubmitRequest"

	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)

	var verr models.ValidationError
	if req.ClientName == "" {
		verr.Add("client_name", "is required")
	}
	if req.ClientPhone == "" {
		verr.Add("client_phone", "is required")
	}
	if !s.knownGoal(req.Goal) {
		verr.Add("goal", fmt.Sprintf("unknown goal %q", req.Goal))
	}
	if !models.ValidHoursBand(req.Hours) {
		verr.Add("hours", fmt.Sprintf("unknown hours band %q", req.Hours))
	}
	if err := verr.Err(); err != nil {
		return models.RequestRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := s.ledger.AppendRequest(ctx, models.RequestRecord{
		ID:          s.newID(),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Goal:        req.Goal,
		Hours:       req.Hours,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to append request", slog.String("op", op), sl.Err(err))
		return models.RequestRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("request stored", slog.String("op", op), slog.Int64("seq", rec.Seq))

	return rec, nil
}

func (s *Service) knownGoal(key string) bool {
	for _, g := range s.catalog.Goals() {
		if g.Key == key {
			return true
		}
	}
	return false
}
