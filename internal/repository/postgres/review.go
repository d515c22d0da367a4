package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/pkg/database"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review. The UNIQUE (tour_id, user_id) constraint
// enforces one review per user per tour at write time.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `
		INSERT INTO reviews (id, tour_id, user_id, rating, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		rev.ID,
		rev.TourID,
		rev.UserID,
		rev.Rating,
		rev.Text,
		rev.CreatedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "tour/user", rev.TourID+"/"+rev.UserID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, tour_id, user_id, rating, review, created_at, updated_at
		FROM reviews
		WHERE id = $1`

	var rev domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.TourID,
		&rev.UserID,
		&rev.Rating,
		&rev.Text,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	return &rev, nil
}

// Update modifies the rating and text of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, rev *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, review = $2, updated_at = now()
		WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, rev.Rating, rev.Text, rev.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rev.ID)
	}

	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// ListByTourID returns all reviews for a tour, newest first, joining the
// author's public profile. This is the explicit read-time join that replaces
// any implicit reverse relation on the tour.
func (r *ReviewRepository) ListByTourID(ctx context.Context, tourID string) ([]domain.Review, error) {
	query := `
		SELECT r.id, r.tour_id, r.user_id, r.rating, r.review, r.created_at, r.updated_at,
		       u.name, u.photo
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.tour_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by tour: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			rev    domain.Review
			author domain.UserRef
		)
		if err := rows.Scan(
			&rev.ID,
			&rev.TourID,
			&rev.UserID,
			&rev.Rating,
			&rev.Text,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&author.Name,
			&author.Photo,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		author.ID = rev.UserID
		rev.Author = &author
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// RatingStats computes the review count and mean rating for a tour in a
// single aggregate query. It is keyed purely by the tour id, so callers never
// need to capture the affected review before a mutation.
func (r *ReviewRepository) RatingStats(ctx context.Context, tourID string) (domain.RatingStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE tour_id = $1`

	var stats domain.RatingStats
	if err := r.db.QueryRow(ctx, query, tourID).Scan(&stats.Count, &stats.Average); err != nil {
		return domain.RatingStats{}, fmt.Errorf("aggregate review stats: %w", err)
	}

	return stats, nil
}
