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

// UserRepository implements repository.UserRepository using PostgreSQL. It is
// a read-only lookup surface; account lifecycle is owned by the identity
// service.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, photo, role`

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, id), id)
}

// GetByEmail retrieves a user by email. Emails are stored lowercased, so the
// lookup normalizes its input the same way.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	normalized := strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.QueryRow(ctx, query, normalized), normalized)
}

func (r *UserRepository) scanOne(row rowScanner, key string) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Photo,
		&u.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}
