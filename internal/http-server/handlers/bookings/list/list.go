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

type BookingLister interface {
	ListBookings(ctx context.Context) ([]models.BookingRecord, error)
}

type Response struct {
	response.Response
	Bookings []api.BookingResponse `json:"bookings"`
}

func New(log *slog.Logger, lister BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bookings, err := lister.ListBookings(r.Context())
		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.PERSISTENCE_ERROR, "failed to list bookings"))
			return
		}

		log.Info("Bookings retrieved", slog.Int("count", len(bookings)))

		render.JSON(w, r, Response{Bookings: api.FromBookings(bookings)})
	}
}
