package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays lists the weekday codes in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Понедельник",
	Tuesday:   "Вторник",
	Wednesday: "Среда",
	Thursday:  "Четверг",
	Friday:    "Пятница",
	Saturday:  "Суббота",
	Sunday:    "Воскресенье",
}

func (w Weekday) Valid() bool {
	_, ok := weekdayLabels[w]
	return ok
}

func (w Weekday) Label() string {
	return weekdayLabels[w]
}

// DefaultSlots are the time labels offered by a default deployment.
var DefaultSlots = []string{"8:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00"}

type Goal struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DefaultGoals is the closed goal enumeration.
var DefaultGoals = []Goal{
	{Key: "travel", Label: "Для путешествий"},
	{Key: "study", Label: "Для учебы"},
	{Key: "work", Label: "Для работы"},
	{Key: "relocate", Label: "Для переезда"},
	{Key: "coding", Label: "Для программирования"},
}

type HoursBand struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var HoursBands = []HoursBand{
	{Key: "1-2", Label: "1-2 часа в неделю"},
	{Key: "3-5", Label: "3-5 часов в неделю"},
	{Key: "5-7", Label: "5-7 часов в неделю"},
	{Key: "7-10", Label: "7-10 часов в неделю"},
}

func ValidHoursBand(key string) bool {
	for _, b := range HoursBands {
		if b.Key == key {
			return true
		}
	}
	return false
}

type Tutor struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	About   string       `json:"about"`
	Picture string       `json:"picture"`
	Rating  float64      `json:"rating"`
	Price   int          `json:"price"`
	Goals   []string     `json:"goals"`
	Free    Availability `json:"free"`
}

func (t Tutor) HasGoal(key string) bool {
	for _, g := range t.Goals {
		if g == key {
			return true
		}
	}
	return false
}

func (t Tutor) Clone() Tutor {
	out := t
	out.Goals = append([]string(nil), t.Goals...)
	out.Free = t.Free.Clone()
	return out
}

// Catalog is the full dataset persisted as one snapshot.
type Catalog struct {
	Goals  []Goal  `json:"goals"`
	Tutors []Tutor `json:"tutors"`
}

func (c Catalog) Clone() Catalog {
	out := Catalog{
		Goals:  append([]Goal(nil), c.Goals...),
		Tutors: make([]Tutor, 0, len(c.Tutors)),
	}
	for _, t := range c.Tutors {
		out.Tutors = append(out.Tutors, t.Clone())
	}
	return out
}

func (c Catalog) HasGoal(key string) bool {
	for _, g := range c.Goals {
		if g.Key == key {
			return true
		}
	}
	return false
}

// Validate checks the structural rules a restored snapshot must satisfy.
func (c Catalog) Validate() error {
	seen := make(map[int]struct{}, len(c.Tutors))
	for _, t := range c.Tutors {
		if t.ID <= 0 {
			return fmt.Errorf("tutor id %d is not positive", t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate tutor id %d", t.ID)
		}
		seen[t.ID] = struct{}{}

		for _, g := range t.Goals {
			if !c.HasGoal(g) {
				return fmt.Errorf("tutor %d: unknown goal %q", t.ID, g)
			}
		}
		if err := t.Free.Validate(); err != nil {
			return fmt.Errorf("tutor %d: %w", t.ID, err)
		}
	}

	return nil
}

type BookingRecord struct {
	Seq         int64     `json:"seq"`
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	TutorID     int       `json:"tutor_id"`
	Weekday     Weekday   `json:"weekday"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

type RequestRecord struct {
	Seq         int64     `json:"seq"`
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Goal        string    `json:"goal"`
	Hours       string    `json:"hours"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReservationRequest struct {
	TutorID     int
	Weekday     Weekday
	Time        string
	ClientName  string
	ClientPhone string
}

type ContactRequest struct {
	ClientName  string
	ClientPhone string
	Goal        string
	Hours       string
}
