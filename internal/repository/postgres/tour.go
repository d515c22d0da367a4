package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Anupmor1998/foodApp/internal/domain"
	"github.com/Anupmor1998/foodApp/pkg/database"
	apperrors "github.com/Anupmor1998/foodApp/pkg/errors"
)

// TourRepository implements repository.TourRepository using PostgreSQL.
type TourRepository struct {
	db database.DBTX
}

// NewTourRepository creates a new PostgreSQL-backed tour repository.
func NewTourRepository(db database.DBTX) *TourRepository {
	return &TourRepository{db: db}
}

const tourColumns = `id, name, slug, price, duration, difficulty, max_group_size,
	ratings_average, ratings_quantity, summary, description, image_cover,
	start_lat, start_lng, start_address, start_description, secret_tour,
	created_at, updated_at`

// centralAngleExpr computes the great-circle central angle (radians) between
// the point ($1=lat, $2=lng) and a tour's start location, using the spherical
// law of cosines. LEAST/GREATEST clamp rounding noise out of acos's domain.
const centralAngleExpr = `acos(LEAST(1.0, GREATEST(-1.0,
		sin(radians($1)) * sin(radians(start_lat)) +
		cos(radians($1)) * cos(radians(start_lat)) * cos(radians(start_lng) - radians($2)))))`

// GetByID retrieves a tour by its ID.
func (r *TourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE id = $1 AND secret_tour = FALSE`

	row := r.db.QueryRow(ctx, query, id)

	t, err := scanTour(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tour", id)
		}
		return nil, fmt.Errorf("get tour by id: %w", err)
	}

	return t, nil
}

// List returns all non-secret tours ordered by name.
func (r *TourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE secret_tour = FALSE
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	return collectTours(rows)
}

// UpdateRatingStats writes the denormalized rating summary for a tour.
// Returns false (and no error) when the tour does not exist.
func (r *TourRepository) UpdateRatingStats(ctx context.Context, tourID string, average float64, quantity int) (bool, error) {
	query := `
		UPDATE tours
		SET ratings_average = $1, ratings_quantity = $2, updated_at = now()
		WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, average, quantity, tourID)
	if err != nil {
		return false, fmt.Errorf("update tour rating stats: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// WithinRadius returns tours whose start location lies within the given
// angular radius (radians) of the center point.
func (r *TourRepository) WithinRadius(ctx context.Context, lat, lng, radius float64) ([]domain.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE secret_tour = FALSE
		  AND ` + centralAngleExpr + ` <= $3`

	rows, err := r.db.Query(ctx, query, lat, lng, radius)
	if err != nil {
		return nil, fmt.Errorf("tours within radius: %w", err)
	}
	defer rows.Close()

	return collectTours(rows)
}

// DistancesFrom returns every tour annotated with its distance from the
// center point, scaled by multiplier, ordered ascending.
func (r *TourRepository) DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]domain.TourDistance, error) {
	query := fmt.Sprintf(`
		SELECT id, name, %s * %f * $3 AS distance
		FROM tours
		WHERE secret_tour = FALSE
		ORDER BY distance`, centralAngleExpr, domain.EarthRadiusMeters)

	rows, err := r.db.Query(ctx, query, lat, lng, multiplier)
	if err != nil {
		return nil, fmt.Errorf("tour distances: %w", err)
	}
	defer rows.Close()

	var distances []domain.TourDistance
	for rows.Next() {
		var d domain.TourDistance
		if err := rows.Scan(&d.TourID, &d.Name, &d.Distance); err != nil {
			return nil, fmt.Errorf("scan tour distance row: %w", err)
		}
		distances = append(distances, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tour distance rows: %w", err)
	}

	return distances, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (*domain.Tour, error) {
	var t domain.Tour
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Price,
		&t.Duration,
		&t.Difficulty,
		&t.MaxGroupSize,
		&t.RatingsAverage,
		&t.RatingsQuantity,
		&t.Summary,
		&t.Description,
		&t.ImageCover,
		&t.StartLocation.Lat,
		&t.StartLocation.Lng,
		&t.StartLocation.Address,
		&t.StartLocation.Description,
		&t.SecretTour,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTours(rows pgx.Rows) ([]domain.Tour, error) {
	var tours []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour row: %w", err)
		}
		tours = append(tours, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tour rows: %w", err)
	}

	return tours, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
