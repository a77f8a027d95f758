package repository

import (
	"context"
	"fmt"

	"table-for-two-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VoteRepository handles database operations for votes
type VoteRepository struct {
	db *pgxpool.Pool
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert writes the vote, overwriting any earlier vote by the same user on
// the same restaurant. The composite primary key makes this a single
// idempotent write; there is no read-before-write to race against.
func (r *VoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (pair_id, restaurant_id, user_id, vote_type, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pair_id, restaurant_id, user_id)
		DO UPDATE SET vote_type = EXCLUDED.vote_type, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		vote.PairID, vote.RestaurantID, vote.UserID, vote.VoteType, vote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// ListByPair retrieves all votes for a pair
func (r *VoteRepository) ListByPair(ctx context.Context, pairID string) ([]models.Vote, error) {
	query := `
		SELECT pair_id, restaurant_id, user_id, vote_type, updated_at
		FROM votes
		WHERE pair_id = $1
	`
	rows, err := r.db.Query(ctx, query, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var vote models.Vote
		err := rows.Scan(&vote.PairID, &vote.RestaurantID, &vote.UserID, &vote.VoteType, &vote.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}

	return votes, nil
}
