package api

import (
	"time"

	"tutor-service/internal/models"
)

type Goal struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Slot struct {
	Time string `json:"time"`
	Free bool   `json:"free"`
}

type Day struct {
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
	Slots   []Slot `json:"slots"`
}

type Tutor struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	About   string   `json:"about"`
	Picture string   `json:"picture"`
	Rating  float64  `json:"rating"`
	Price   int      `json:"price"`
	Goals   []string `json:"goals"`
	// Schedule is only filled for the single-tutor view.
	Schedule []Day `json:"schedule,omitempty"`
}

type BookingRequest struct {
	TutorID     int    `json:"tutor_id"`
	Weekday     string `json:"weekday"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}

type BookingResponse struct {
	Seq          int64     `json:"seq"`
	ID           string    `json:"id"`
	TutorID      int       `json:"tutor_id"`
	Weekday      string    `json:"weekday"`
	WeekdayLabel string    `json:"weekday_label"`
	Time         string    `json:"time"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

type ContactRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Goal        string `json:"goal"`
	Hours       string `json:"hours"`
}

type ContactResponse struct {
	Seq         int64     `json:"seq"`
	ID          string    `json:"id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Goal        string    `json:"goal"`
	Hours       string    `json:"hours"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromGoals(goals []models.Goal) []Goal {
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, Goal{Key: g.Key, Label: g.Label})
	}
	return out
}

// FromTutor converts a tutor; withSchedule adds the weekly grid in calendar order.
func FromTutor(t models.Tutor, withSchedule bool) Tutor {
	out := Tutor{
		ID:      t.ID,
		Name:    t.Name,
		About:   t.About,
		Picture: t.Picture,
		Rating:  t.Rating,
		Price:   t.Price,
		Goals:   append([]string{}, t.Goals...),
	}
	if !withSchedule {
		return out
	}

	out.Schedule = make([]Day, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		d := Day{Weekday: string(day), Label: day.Label(), Slots: []Slot{}}
		for _, slot := range t.Free.Slots(day) {
			d.Slots = append(d.Slots, Slot{Time: slot, Free: t.Free[day][slot]})
		}
		out.Schedule = append(out.Schedule, d)
	}

	return out
}

func FromTutors(tutors []models.Tutor) []Tutor {
	out := make([]Tutor, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, FromTutor(t, false))
	}
	return out
}

func (r BookingRequest) ToModel() models.ReservationRequest {
	return models.ReservationRequest{
		TutorID:     r.TutorID,
		Weekday:     models.Weekday(r.Weekday),
		Time:        r.Time,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
	}
}

func FromBooking(b models.BookingRecord) BookingResponse {
	return BookingResponse{
		Seq:          b.Seq,
		ID:           b.ID.String(),
		TutorID:      b.TutorID,
		Weekday:      string(b.Weekday),
		WeekdayLabel: b.Weekday.Label(),
		Time:         b.Time,
		ClientName:   b.ClientName,
		ClientPhone:  b.ClientPhone,
		CreatedAt:    b.CreatedAt,
	}
}

func FromBookings(records []models.BookingRecord) []BookingResponse {
	out := make([]BookingResponse, 0, len(records))
	for _, b := range records {
		out = append(out, FromBooking(b))
	}
	return out
}

func (r ContactRequest) ToModel() models.ContactRequest {
	return models.ContactRequest{
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Goal:        r.Goal,
		Hours:       r.Hours,
	}
}

func FromRequest(r models.RequestRecord) ContactResponse {
	return ContactResponse{
		Seq:         r.Seq,
		ID:          r.ID.String(),
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Goal:        r.Goal,
		Hours:       r.Hours,
		CreatedAt:   r.CreatedAt,
	}
}

func FromRequests(records []models.RequestRecord) []ContactResponse {
	out := make([]ContactResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromRequest(r))
	}
	return out
}
