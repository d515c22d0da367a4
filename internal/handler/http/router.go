package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/internal/service"
	"github.com/Anupmor1998/foodApp/pkg/health"
	"github.com/Anupmor1998/foodApp/pkg/middleware"
)

// RouterConfig carries the cross-cutting settings the router needs.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	ValidateToken  middleware.TokenValidator
}

// NewRouter creates a chi router with all tour booking routes registered.
func NewRouter(
	tourService *service.TourService,
	reviewService *service.ReviewService,
	bookingService *service.BookingService,
	payments provider.Provider,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(middleware.PrometheusMetrics("tour-booking"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	tourHandler := NewTourHandler(tourService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	bookingHandler := NewBookingHandler(bookingService, logger)
	webhookHandler := NewWebhookHandler(payments, bookingService, logger)

	authed := middleware.Auth(cfg.ValidateToken)

	r.Route("/api/v1/tours", func(r chi.Router) {
		r.Get("/", tourHandler.ListTours)

		// Geo routes must come before /{id} to avoid conflict.
		r.Get("/within/{distance}/center/{latlng}/unit/{unit}", tourHandler.ToursWithin)
		r.Get("/distances/{latlng}/unit/{unit}", tourHandler.Distances)

		r.Get("/{id}", tourHandler.GetTour)

		r.Route("/{tourId}/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.With(authed, ContentTypeJSON).Post("/", reviewHandler.CreateReview)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/{id}", reviewHandler.GetReview)
		r.With(authed, ContentTypeJSON).Patch("/{id}", reviewHandler.UpdateReview)
		r.With(authed).Delete("/{id}", reviewHandler.DeleteReview)
	})

	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Use(authed)

		r.Get("/checkout-session/{tourId}", bookingHandler.GetCheckoutSession)
		r.Get("/me", bookingHandler.MyBookings)
	})

	// The webhook endpoint verifies its own signature over the raw body and
	// must stay outside auth and content-type middleware.
	r.Post("/webhooks/stripe", webhookHandler.HandleCheckout)

	return r
}
