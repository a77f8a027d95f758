package repository

import (
	"context"
	"fmt"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RestaurantRepository handles database operations for restaurants
type RestaurantRepository struct {
	db *pgxpool.Pool
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantColumns = `id, pair_id, place_id, name, address, lat, lng, photo_url, photo_reference, added_by, created_at`

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := row.Scan(
		&rest.ID, &rest.PairID, &rest.PlaceID, &rest.Name, &rest.Address,
		&rest.Lat, &rest.Lng, &rest.PhotoURL, &rest.PhotoReference,
		&rest.AddedBy, &rest.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// Create inserts a restaurant. When the place id is already present for the
// pair the insert is a no-op and Create reports created=false; the caller
// then looks up the surviving row. This keeps concurrent duplicate adds
// race-free without a read-before-write.
func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) (created bool, err error) {
	query := `
		INSERT INTO restaurants (id, pair_id, place_id, name, address, lat, lng, photo_url, photo_reference, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (pair_id, place_id) WHERE place_id IS NOT NULL DO NOTHING
	`
	result, err := r.db.Exec(ctx, query,
		rest.ID, rest.PairID, rest.PlaceID, rest.Name, rest.Address,
		rest.Lat, rest.Lng, rest.PhotoURL, rest.PhotoReference,
		rest.AddedBy, rest.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create restaurant: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetByID retrieves a restaurant by ID
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Wrap(apperr.NotFound, "restaurant not found", err)
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return rest, nil
}

// FindByPlaceID retrieves the restaurant with the given place id within a
// pair, or nil when none exists.
func (r *RestaurantRepository) FindByPlaceID(ctx context.Context, pairID, placeID string) (*models.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE pair_id = $1 AND place_id = $2`, pairID, placeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by place id: %w", err)
	}
	return rest, nil
}

// ListByPair retrieves all restaurants for a pair ordered by creation time
func (r *RestaurantRepository) ListByPair(ctx context.Context, pairID string) ([]*models.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE pair_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}

	return restaurants, nil
}
