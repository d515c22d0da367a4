package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Anupmor1998/foodApp/internal/service"
	"github.com/Anupmor1998/foodApp/pkg/httputil"
)

// TourHandler handles HTTP requests for tour endpoints.
type TourHandler struct {
	service *service.TourService
	logger  *slog.Logger
}

// NewTourHandler creates a new tour HTTP handler.
func NewTourHandler(svc *service.TourService, logger *slog.Logger) *TourHandler {
	return &TourHandler{
		service: svc,
		logger:  logger,
	}
}

// ListTours handles GET /api/v1/tours
func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.ListTours(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteCollection(w, tours, len(tours))
}

// GetTour handles GET /api/v1/tours/{id}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	tour, err := h.service.GetTour(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, tour)
}

// ToursWithin handles GET /api/v1/tours/within/{distance}/center/{latlng}/unit/{unit}
func (h *TourHandler) ToursWithin(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Status: httputil.StatusFail,
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "distance must be a number",
			},
		})
		return
	}

	center := parseLatLng(chi.URLParam(r, "latlng"))
	unit := chi.URLParam(r, "unit")

	tours, err := h.service.ToursWithin(r.Context(), distance, center, unit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteCollection(w, tours, len(tours))
}

// Distances handles GET /api/v1/tours/distances/{latlng}/unit/{unit}
func (h *TourHandler) Distances(w http.ResponseWriter, r *http.Request) {
	center := parseLatLng(chi.URLParam(r, "latlng"))
	unit := chi.URLParam(r, "unit")

	distances, err := h.service.Distances(r.Context(), center, unit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteCollection(w, distances, len(distances))
}

// parseLatLng parses a "lat,lng" path segment. An unparseable segment yields
// an unset point; the service turns that into the client-facing format error.
func parseLatLng(raw string) service.GeoPoint {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return service.GeoPoint{}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return service.GeoPoint{}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return service.GeoPoint{}
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return service.GeoPoint{}
	}

	return service.GeoPoint{Lat: lat, Lng: lng, Set: true}
}
