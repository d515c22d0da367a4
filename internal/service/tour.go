package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/repository"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// latLngFormatMsg mirrors the client-facing wording for a malformed or
// missing center point.
const latLngFormatMsg = "Please provide latitude and longitude in the format lat,lng."

// TourService implements read and geospatial operations over tours.
type TourService struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewTourService creates a new tour service.
func NewTourService(tours repository.TourRepository, reviews repository.ReviewRepository, logger *slog.Logger) *TourService {
	return &TourService{
		tours:   tours,
		reviews: reviews,
		logger:  logger,
	}
}

// TourDetail is a tour together with its reviews, the detail-page projection.
type TourDetail struct {
	domain.Tour
	Reviews []domain.Review `json:"reviews"`
}

// GetTour retrieves a tour with its reviews joined in.
func (s *TourService) GetTour(ctx context.Context, id string) (*TourDetail, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tour by id: %w", err)
	}

	reviews, err := s.reviews.ListByTourID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews for tour: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	return &TourDetail{Tour: *tour, Reviews: reviews}, nil
}

// ListTours returns all non-secret tours.
func (s *TourService) ListTours(ctx context.Context) ([]domain.Tour, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	return tours, nil
}

// GeoPoint is a validated center point for geo queries.
type GeoPoint struct {
	Lat float64
	Lng float64
	Set bool
}

// ToursWithin returns tours whose start location lies within distance of the
// center, where distance is expressed in the given unit (miles when "mi",
// kilometers otherwise).
func (s *TourService) ToursWithin(ctx context.Context, distance float64, center GeoPoint, unit string) ([]domain.Tour, error) {
	if !center.Set {
		return nil, apperrors.InvalidInput(latLngFormatMsg)
	}
	if distance < 0 {
		return nil, apperrors.InvalidInput("distance must not be negative")
	}

	radius := domain.AngularRadius(distance, unit)

	tours, err := s.tours.WithinRadius(ctx, center.Lat, center.Lng, radius)
	if err != nil {
		return nil, fmt.Errorf("tours within radius: %w", err)
	}

	s.logger.DebugContext(ctx, "geo radius query",
		slog.Float64("lat", center.Lat),
		slog.Float64("lng", center.Lng),
		slog.Float64("distance", distance),
		slog.String("unit", unit),
		slog.Int("results", len(tours)),
	)

	return tours, nil
}

// Distances returns every tour annotated with its distance from the center,
// in the requested unit, nearest first.
func (s *TourService) Distances(ctx context.Context, center GeoPoint, unit string) ([]domain.TourDistance, error) {
	if !center.Set {
		return nil, apperrors.InvalidInput(latLngFormatMsg)
	}

	multiplier := domain.DistanceMultiplier(unit)

	distances, err := s.tours.DistancesFrom(ctx, center.Lat, center.Lng, multiplier)
	if err != nil {
		return nil, fmt.Errorf("tour distances: %w", err)
	}

	return distances, nil
}
