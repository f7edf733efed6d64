package create

import (
	"context"
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

type RequestSubmitter interface {
	SubmitRequest(ctx context.Context, req models.ContactRequest) (models.RequestRecord, error)
}

type Request struct {
	api.ContactRequest
}

type Response struct {
	response.Response
	Request *api.ContactResponse `json:"request,omitempty"`
}

func New(log *slog.Logger, submitter RequestSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.requests.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.BAD_REQUEST, "failed to decode request"))
			return
		}

		rec, err := submitter.SubmitRequest(r.Context(), req.ToModel())

		var verr *models.ValidationError
		if errors.As(err, &verr) {
			log.Info("invalid contact request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError("invalid contact request", verr.Fields))
			return
		}

		if err != nil {
			log.Error("Failed to store request", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.PERSISTENCE_ERROR, "failed to store request"))
			return
		}

		log.Info("Request stored", slog.Int64("seq", rec.Seq))

		resp := api.FromRequest(rec)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Request: &resp})
	}
}
