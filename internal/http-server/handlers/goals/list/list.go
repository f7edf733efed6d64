package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutor-service/api"
	"tutor-service/internal/models"
	"tutor-service/pkg/response"
)

type GoalLister interface {
	Goals() []models.Goal
}

type Response struct {
	response.Response
	Goals []api.Goal `json:"goals"`
}

func New(log *slog.Logger, lister GoalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.goals.list.New"

		log.Debug("Listing goals",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		render.JSON(w, r, Response{Goals: api.FromGoals(lister.Goals())})
	}
}
