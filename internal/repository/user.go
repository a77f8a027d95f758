package repository

import (
	"context"
	"fmt"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, display_name, email, photo_url, active_pair_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.DisplayName, user.Email, user.PhotoURL, user.ActivePairID,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, email, photo_url, active_pair_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.DisplayName, &user.Email, &user.PhotoURL,
		&user.ActivePairID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Wrap(apperr.NotFound, "user not found", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SetActivePair updates the user's active pair pointer. A nil pairID clears
// it. Missing user rows are created, matching the original merge-write
// semantics of the pointer update.
func (r *UserRepository) SetActivePair(ctx context.Context, userID string, pairID *string) error {
	query := `
		INSERT INTO users (id, display_name, active_pair_id, created_at, updated_at)
		VALUES ($1, '', $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET active_pair_id = $2, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, pairID)
	if err != nil {
		return fmt.Errorf("failed to set active pair: %w", err)
	}
	return nil
}
