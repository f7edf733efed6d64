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

type Reserver interface {
	Reserve(ctx context.Context, req models.ReservationRequest) (models.BookingRecord, error)
}

type Request struct {
	api.BookingRequest
}

type Response struct {
	response.Response
	Booking *api.BookingResponse `json:"booking,omitempty"`
}

func New(log *slog.Logger, reserver Reserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.create.New"

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

		log.Debug("Request body decoded",
			slog.Int("tutor_id", req.TutorID),
			slog.String("weekday", req.Weekday),
			slog.String("time", req.Time),
		)

		booking, err := reserver.Reserve(r.Context(), req.ToModel())

		var verr *models.ValidationError

		switch {
		case err == nil:
		case errors.Is(err, models.ErrSlotTaken):
			log.Info("slot is taken")
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error(response.SLOT_TAKEN, "slot is already booked"))
			return
		case errors.Is(err, models.ErrNotFound):
			log.Info("tutor not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(response.NOT_FOUND, "tutor not found"))
			return
		case errors.As(err, &verr):
			log.Info("invalid booking request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError("invalid booking request", verr.Fields))
			return
		case errors.Is(err, models.ErrLocked):
			log.Warn("tutor is locked")
			render.Status(r, http.StatusLocked)
			render.JSON(w, r, response.Error(response.LOCKED, "tutor is busy, try again"))
			return
		case errors.Is(err, models.ErrLedgerUnconfirmed):
			log.Error("Booking committed without ledger record", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Response{
				Response: response.Error(response.LEDGER_UNCONFIRMED, "booking is saved but not recorded in history"),
				Booking:  bookingPtr(booking),
			})
			return
		case errors.Is(err, models.ErrPersistence):
			log.Error("Failed to persist booking", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.PERSISTENCE_ERROR, "failed to save booking"))
			return
		default:
			log.Error("Failed to create booking", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.FAILED_REQUEST, "failed to create booking"))
			return
		}

		log.Info("Booking created", slog.Int64("seq", booking.Seq))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Booking: bookingPtr(booking)})
	}
}

func bookingPtr(b models.BookingRecord) *api.BookingResponse {
	resp := api.FromBooking(b)
	return &resp
}
