package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tutor-service/api"
	"tutor-service/internal/models"
	"tutor-service/pkg/response"
	"tutor-service/pkg/sl"
)

type RequestLister interface {
	ListRequests(ctx context.Context) ([]models.RequestRecord, error)
}

type Response struct {
	response.Response
	Requests []api.ContactResponse `json:"requests"`
}

func New(log *slog.Logger, lister RequestLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.requests.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		records, err := lister.ListRequests(r.Context())
		if err != nil {
			log.Error("Failed to list requests", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.PERSISTENCE_ERROR, "failed to list requests"))
			return
		}

		log.Info("Requests retrieved", slog.Int("count", len(records)))

		render.JSON(w, r, Response{Requests: api.FromRequests(records)})
	}
}
