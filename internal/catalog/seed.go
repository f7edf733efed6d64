package catalog

import "tutor-service/internal/models"

// DefaultCatalog is the dataset written on first run.
func DefaultCatalog() models.Catalog {
	return models.Catalog{
		Goals: append([]models.Goal(nil), models.DefaultGoals...),
		Tutors: []models.Tutor{
			{
				ID:      1,
				Name:    "Morris Simmmons",
				About:   "Taught English abroad for eight years, now prepares students for travel and relocation.",
				Picture: "https://i.pravatar.cc/300?img=20",
				Rating:  4.2,
				Price:   900,
				Goals:   []string{"travel", "relocate", "study"},
				Free:    grid(map[models.Weekday][]string{models.Monday: {"14:00"}, models.Wednesday: {"8:00", "20:00"}}),
			},
			{
				ID:      2,
				Name:    "Lee Wolf",
				About:   "Business English and interview practice for people moving into international teams.",
				Picture: "https://i.pravatar.cc/300?img=53",
				Rating:  4.7,
				Price:   1200,
				Goals:   []string{"work", "relocate"},
				Free:    grid(map[models.Weekday][]string{models.Tuesday: {"10:00", "12:00"}}),
			},
			{
				ID:      3,
				Name:    "Kimberly Cole",
				About:   "Exam preparation and academic writing.",
				Picture: "https://i.pravatar.cc/300?img=32",
				Rating:  4.9,
				Price:   1500,
				Goals:   []string{"study", "work"},
				Free:    grid(nil),
			},
			{
				ID:      4,
				Name:    "Marilyn Stewart",
				About:   "Conversational English for trips, from airports to restaurants.",
				Picture: "https://i.pravatar.cc/300?img=45",
				Rating:  4.4,
				Price:   700,
				Goals:   []string{"travel"},
				Free:    grid(map[models.Weekday][]string{models.Saturday: {"10:00", "12:00", "14:00"}, models.Sunday: {"10:00"}}),
			},
			{
				ID:      5,
				Name:    "Jeffery Russell",
				About:   "Software engineer teaching technical English: docs, code review and standups.",
				Picture: "https://i.pravatar.cc/300?img=11",
				Rating:  4.8,
				Price:   1300,
				Goals:   []string{"coding", "work"},
				Free:    grid(map[models.Weekday][]string{models.Friday: {"18:00", "20:00"}}),
			},
			{
				ID:      6,
				Name:    "Lester Smith",
				About:   "Patient beginner-friendly lessons for any goal.",
				Picture: "https://i.pravatar.cc/300?img=60",
				Rating:  4.0,
				Price:   600,
				Goals:   []string{"travel", "study", "coding"},
				Free:    grid(map[models.Weekday][]string{models.Thursday: {"8:00"}}),
			},
		},
	}
}

// grid offers every default slot on every weekday, with booked cells already taken.
func grid(booked map[models.Weekday][]string) models.Availability {
	a := models.NewAvailability(models.DefaultSlots)
	for day, slots := range booked {
		for _, slot := range slots {
			a[day][slot] = false
		}
	}
	return a
}
