package get

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutor-service/api"
	"tutor-service/internal/models"
	"tutor-service/pkg/response"
	"tutor-service/pkg/sl"
)

type TutorGetter interface {
	GetTutor(id int) (models.Tutor, error)
}

type Response struct {
	response.Response
	Tutor *api.Tutor `json:"tutor,omitempty"`
}

func New(log *slog.Logger, getter TutorGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tutors.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			log.Info("invalid tutor id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError("invalid tutor id", map[string]string{
				"id": "must be an integer",
			}))
			return
		}

		tutor, err := getter.GetTutor(id)
		if errors.Is(err, models.ErrNotFound) {
			log.Info("tutor not found", slog.Int("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "tutor not found"))
			return
		}
		if err != nil {
			log.Error("Failed to get tutor", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to get tutor"))
			return
		}

		resp := api.FromTutor(tutor, true)
		render.JSON(w, r, Response{Tutor: &resp})
	}
}
