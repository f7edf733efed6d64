package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation marks bad or missing input. The caller re-prompts.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned for an unknown tutor or goal.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSlot is returned when a weekday or time label is not part of a tutor's grid.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrSlotUnavailable is returned by Availability.Reserve when the cell cannot be booked.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrSlotTaken is the expected outcome of losing a reservation race.
	ErrSlotTaken = errors.New("slot is taken")
	// ErrPersistence means a durable write failed.
	ErrPersistence = errors.New("persistence error")
	// ErrLedgerUnconfirmed means the grid was committed but the ledger append failed.
	ErrLedgerUnconfirmed = fmt.Errorf("%w: booking committed, ledger not confirmed", ErrPersistence)
	// ErrCorruptData means the durable snapshot exists but cannot be read back.
	ErrCorruptData = errors.New("corrupt data")
	// ErrLocked means a reservation lock could not be acquired before the context ended.
	ErrLocked = errors.New("resource is locked")
)

// ValidationError collects per-field problems. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns nil when no field was reported.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
