package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/internal/event"
	"github.com/Anupmor1998/foodApp/internal/repository"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// ReviewService implements the business logic for review operations. Every
// review mutation triggers a synchronous rating recompute for the affected
// tour before the call returns.
type ReviewService struct {
	reviews    repository.ReviewRepository
	tours      repository.TourRepository
	aggregator *RatingAggregator
	publisher  event.Publisher
	logger     *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, aggregator *RatingAggregator, publisher event.Publisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		tours:      tours,
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	TourID string
	UserID string
	Rating int
	Text   string
}

// UpdateReviewInput holds the parameters for updating a review.
type UpdateReviewInput struct {
	Rating *int
	Text   *string
}

// CreateReview creates a review for a tour. The one-review-per-user-per-tour
// rule is enforced by the store's unique constraint rather than a read-check,
// so concurrent duplicates cannot race past it.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.Text == "" {
		return nil, apperrors.InvalidInput("review text is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be an integer between %d and %d", domain.RatingMin, domain.RatingMax))
	}

	// The tour must exist before a review can be attached to it.
	if _, err := s.tours.GetByID(ctx, input.TourID); err != nil {
		return nil, fmt.Errorf("get tour for review: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		TourID:    input.TourID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Text:      input.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.aggregator.Recompute(ctx, review.TourID); err != nil {
		s.logger.ErrorContext(ctx, "rating recompute failed after review create",
			slog.String("tour_id", review.TourID),
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// The review is committed; the summary catches up on the next mutation.
	}

	if err := s.publisher.ReviewCreated(ctx, event.ReviewCreatedData{
		ReviewID: review.ID,
		TourID:   review.TourID,
		UserID:   review.UserID,
		Rating:   review.Rating,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("tour_id", review.TourID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// GetReview retrieves a review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// ListReviewsByTour returns all reviews for a tour, newest first.
func (s *ReviewService) ListReviewsByTour(ctx context.Context, tourID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByTourID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by tour: %w", err)
	}
	return reviews, nil
}

// UpdateReview applies partial updates to a review owned by actorID. Admins
// may update any review.
func (s *ReviewService) UpdateReview(ctx context.Context, id, actorID, actorRole string, input *UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review for update: %w", err)
	}

	if err := authorizeReviewMutation(review, actorID, actorRole); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if !domain.IsValidRating(*input.Rating) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be an integer between %d and %d", domain.RatingMin, domain.RatingMax))
		}
		review.Rating = *input.Rating
	}

	if input.Text != nil {
		if *input.Text == "" {
			return nil, apperrors.InvalidInput("review text must not be empty")
		}
		review.Text = *input.Text
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.aggregator.Recompute(ctx, review.TourID); err != nil {
		s.logger.ErrorContext(ctx, "rating recompute failed after review update",
			slog.String("tour_id", review.TourID),
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("tour_id", review.TourID),
	)

	return review, nil
}

// DeleteReview removes a review owned by actorID. Admins may delete any
// review.
func (s *ReviewService) DeleteReview(ctx context.Context, id, actorID, actorRole string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get review for delete: %w", err)
	}

	if err := authorizeReviewMutation(review, actorID, actorRole); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := s.aggregator.Recompute(ctx, review.TourID); err != nil {
		s.logger.ErrorContext(ctx, "rating recompute failed after review delete",
			slog.String("tour_id", review.TourID),
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("tour_id", review.TourID),
	)

	return nil
}

func authorizeReviewMutation(review *domain.Review, actorID, actorRole string) error {
	if actorRole == domain.RoleAdmin || review.UserID == actorID {
		return nil
	}
	return apperrors.Forbidden("you can only modify your own reviews")
}
