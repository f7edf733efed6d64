package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Availability maps a weekday code to its time labels and their free flag.
// A label missing from a day is not offered and can never be booked.
type Availability map[Weekday]map[string]bool

// IsFree reports whether the cell is free. It fails with ErrInvalidSlot when the
// weekday is unknown or the tutor does not offer the slot.
func (a Availability) IsFree(day Weekday, slot string) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSlot, day)
	}

	free, ok := a[day][slot]
	if !ok {
		return false, fmt.Errorf("%w: %s %s is not offered", ErrInvalidSlot, day, slot)
	}

	return free, nil
}

// Reserve flips a free cell to booked. It is the only place a cell changes.
func (a Availability) Reserve(day Weekday, slot string) error {
	free, err := a.IsFree(day, slot)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	}
	if !free {
		return fmt.Errorf("%w: %s %s is already booked", ErrSlotUnavailable, day, slot)
	}

	a[day][slot] = false

	return nil
}

func (a Availability) Clone() Availability {
	if a == nil {
		return nil
	}

	out := make(Availability, len(a))
	for day, slots := range a {
		cp := make(map[string]bool, len(slots))
		for slot, free := range slots {
			cp[slot] = free
		}
		out[day] = cp
	}

	return out
}

// Slots returns the labels offered on day ordered by time of day.
func (a Availability) Slots(day Weekday) []string {
	out := make([]string, 0, len(a[day]))
	for slot := range a[day] {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool {
		return slotMinutes(out[i]) < slotMinutes(out[j])
	})

	return out
}

func (a Availability) FreeCount() int {
	n := 0
	for _, slots := range a {
		for _, free := range slots {
			if free {
				n++
			}
		}
	}

	return n
}

// Validate rejects grids keyed by unknown weekday codes or empty labels.
func (a Availability) Validate() error {
	for day, slots := range a {
		if !day.Valid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		for slot := range slots {
			if strings.TrimSpace(slot) == "" {
				return fmt.Errorf("empty slot label on %s", day)
			}
		}
	}

	return nil
}

// NewAvailability builds a grid offering every slot on every weekday, all free.
func NewAvailability(slots []string) Availability {
	a := make(Availability, len(Weekdays))
	for _, day := range Weekdays {
		cells := make(map[string]bool, len(slots))
		for _, slot := range slots {
			cells[slot] = true
		}
		a[day] = cells
	}

	return a
}

// slotMinutes parses "H:MM" into minutes since midnight; unparsable labels sort last.
func slotMinutes(slot string) int {
	h, m, ok := strings.Cut(slot, ":")
	if !ok {
		return 1 << 30
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 1 << 30
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 1 << 30
	}

	return hh*60 + mm
}
