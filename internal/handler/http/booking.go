package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Anupmor1998/foodApp/internal/service"
	"github.com/Anupmor1998/foodApp/pkg/httputil"
	"github.com/Anupmor1998/foodApp/pkg/middleware"
)

// BookingHandler handles HTTP requests for booking endpoints.
type BookingHandler struct {
	service *service.BookingService
	logger  *slog.Logger
}

// NewBookingHandler creates a new booking HTTP handler.
func NewBookingHandler(svc *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  logger,
	}
}

// GetCheckoutSession handles GET /api/v1/bookings/checkout-session/{tourId}
func (h *BookingHandler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	tourID, ok := httputil.ParseUUID(w, chi.URLParam(r, "tourId"))
	if !ok {
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), tourID.String(),
		middleware.EmailFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"session": session})
}

// MyBookings handles GET /api/v1/bookings/me
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookingsByUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteCollection(w, bookings, len(bookings))
}
