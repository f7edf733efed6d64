package list

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutor-service/api"
	"tutor-service/internal/models"
	"tutor-service/pkg/response"
	"tutor-service/pkg/sl"
)

type TutorLister interface {
	ListTutors(sort string) ([]models.Tutor, error)
}

type Response struct {
	response.Response
	Tutors []api.Tutor `json:"tutors"`
}

func New(log *slog.Logger, lister TutorLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tutors.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sort := r.URL.Query().Get("sort")

		tutors, err := lister.ListTutors(sort)
		if errors.Is(err, models.ErrValidation) {
			log.Info("unknown sort order", slog.String("sort", sort))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError("unknown sort order", map[string]string{
				"sort": "must be one of randomly, best, expensive, cheap",
			}))
			return
		}
		if err != nil {
			log.Error("Failed to list tutors", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to list tutors"))
			return
		}

		render.JSON(w, r, Response{Tutors: api.FromTutors(tutors)})
	}
}
