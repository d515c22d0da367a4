package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/event"
	"github.com/Anupmor1998/foodApp/internal/repository"
)

// recomputeTimeout bounds a single aggregation pass so a slow database cannot
// stall the mutation that triggered it indefinitely.
const recomputeTimeout = 5 * time.Second

// RatingAggregator maintains the denormalized rating summary on tours. Every
// recompute derives the summary from a fresh aggregate over the current review
// set, keyed only by tour id, so concurrent review mutations converge on the
// state of whichever recompute ran last.
type RatingAggregator struct {
	reviews   repository.ReviewRepository
	tours     repository.TourRepository
	publisher event.Publisher
	logger    *slog.Logger
}

// NewRatingAggregator creates a new rating aggregator.
func NewRatingAggregator(reviews repository.ReviewRepository, tours repository.TourRepository, publisher event.Publisher, logger *slog.Logger) *RatingAggregator {
	return &RatingAggregator{
		reviews:   reviews,
		tours:     tours,
		publisher: publisher,
		logger:    logger,
	}
}

// Recompute refreshes a tour's rating summary from its current reviews. A
// tour with no reviews reverts to the creation-time defaults. A missing tour
// is not an error: the triggering review mutation already succeeded and must
// not be rolled back over a summary write.
func (a *RatingAggregator) Recompute(ctx context.Context, tourID string) error {
	ctx, cancel := context.WithTimeout(ctx, recomputeTimeout)
	defer cancel()

	stats, err := a.reviews.RatingStats(ctx, tourID)
	if err != nil {
		return fmt.Errorf("aggregate ratings for tour %s: %w", tourID, err)
	}

	average := domain.DefaultRatingsAverage
	quantity := domain.DefaultRatingsQuantity
	if stats.Count > 0 {
		average = domain.RoundRating(stats.Average)
		quantity = stats.Count
	}

	updated, err := a.tours.UpdateRatingStats(ctx, tourID, average, quantity)
	if err != nil {
		return fmt.Errorf("write rating summary for tour %s: %w", tourID, err)
	}
	if !updated {
		a.logger.DebugContext(ctx, "rating recompute skipped, tour not found",
			slog.String("tour_id", tourID),
		)
		return nil
	}

	if err := a.publisher.TourRatingsUpdated(ctx, event.TourRatingsUpdatedData{
		TourID:          tourID,
		RatingsAverage:  average,
		RatingsQuantity: quantity,
	}); err != nil {
		a.logger.ErrorContext(ctx, "failed to publish tour.ratings_updated event",
			slog.String("tour_id", tourID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	a.logger.InfoContext(ctx, "tour rating summary updated",
		slog.String("tour_id", tourID),
		slog.Float64("ratings_average", average),
		slog.Int("ratings_quantity", quantity),
	)

	return nil
}
