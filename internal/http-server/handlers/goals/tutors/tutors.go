package tutors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutor-service/api"
	"tutor-service/internal/models"
	"tutor-service/pkg/response"
	"tutor-service/pkg/sl"
)

type GoalTutorLister interface {
	TutorsByGoal(goal string) ([]models.Tutor, error)
}

type Response struct {
	response.Response
	Goal   string      `json:"goal,omitempty"`
	Tutors []api.Tutor `json:"tutors"`
}

func New(log *slog.Logger, lister GoalTutorLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.goals.tutors.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		goal := chi.URLParam(r, "goal")

		tutors, err := lister.TutorsByGoal(goal)
		if errors.Is(err, models.ErrNotFound) {
			log.Info("goal not found", slog.String("goal", goal))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "goal not found"))
			return
		}
		if err != nil {
			log.Error("Failed to list tutors by goal", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to list tutors"))
			return
		}

		render.JSON(w, r, Response{Goal: goal, Tutors: api.FromTutors(tutors)})
	}
}
