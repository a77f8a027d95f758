package repository

import (
	"context"
	"fmt"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// deleteChunkSize bounds how many records a single dissolution statement
// touches. Each chunk commits on its own and deletes are if-exists, so a
// crashed dissolve can be re-run from the top.
const deleteChunkSize = 450

// PairRepository handles database operations for pairs
type PairRepository struct {
	db *pgxpool.Pool
}

// NewPairRepository creates a new pair repository
func NewPairRepository(db *pgxpool.Pool) *PairRepository {
	return &PairRepository{db: db}
}

const pairColumns = `id, members, owner_id, invite_code, created_at`

func scanPair(row pgx.Row) (*models.Pair, error) {
	var pair models.Pair
	err := row.Scan(&pair.ID, &pair.Members, &pair.OwnerID, &pair.InviteCode, &pair.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Create inserts the pair and points the owner's active_pair_id at it in one
// transaction.
func (r *PairRepository) Create(ctx context.Context, pair *models.Pair) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO pairs (id, members, owner_id, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pair.ID, pair.Members, pair.OwnerID, pair.InviteCode, pair.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pair: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET active_pair_id = $1, updated_at = NOW() WHERE id = $2
	`, pair.ID, pair.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to set active pair: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit pair creation: %w", err)
	}
	return nil
}

// GetByID retrieves a pair by ID
func (r *PairRepository) GetByID(ctx context.Context, id string) (*models.Pair, error) {
	pair, err := scanPair(r.db.QueryRow(ctx, `SELECT `+pairColumns+` FROM pairs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Wrap(apperr.NotFound, "pair not found", err)
		}
		return nil, fmt.Errorf("failed to get pair: %w", err)
	}
	return pair, nil
}

// CodeExists checks if an invite code is already taken by an existing pair
func (r *PairRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pairs WHERE invite_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return exists, nil
}

// Join appends the user to the pair identified by the invite code and sets
// their active pair pointer. The pair row is locked for the duration of the
// transaction so two concurrent joins on a one-member pair cannot both
// succeed: the loser observes two members and gets ResourceExhausted.
func (r *PairRepository) Join(ctx context.Context, inviteCode, userID string) (*models.Pair, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pair, err := scanPair(tx.QueryRow(ctx,
		`SELECT `+pairColumns+` FROM pairs WHERE invite_code = $1 FOR UPDATE`, inviteCode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Wrap(apperr.NotFound, "invite code not found", err)
		}
		return nil, fmt.Errorf("failed to get pair by invite code: %w", err)
	}

	if pair.HasMember(userID) {
		return nil, apperr.New(apperr.AlreadyExists, "you already created this pair")
	}
	if len(pair.Members) >= 2 {
		return nil, apperr.New(apperr.ResourceExhausted, "this pair is already full (max 2 members)")
	}

	_, err = tx.Exec(ctx, `
		UPDATE pairs SET members = array_append(members, $1) WHERE id = $2
	`, userID, pair.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append member: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET active_pair_id = $1, updated_at = NOW() WHERE id = $2
	`, pair.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to set active pair: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}

	pair.Members = append(pair.Members, userID)
	return pair, nil
}

// RemoveMember removes a non-owner member from the pair and clears their
// active pair pointer in one transaction.
func (r *PairRepository) RemoveMember(ctx context.Context, pairID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE pairs SET members = array_remove(members, $1) WHERE id = $2
	`, userID, pairID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET active_pair_id = NULL, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear active pair: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit leave: %w", err)
	}
	return nil
}

// Dissolve deletes everything scoped to the pair (restaurants, votes, audit
// events, then the pair row) and clears every former member's pointer. Data
// deletes run in bounded chunks, each its own transaction; every statement
// is delete-if-exists, so re-running a partially applied dissolve converges
// to the same end state.
func (r *PairRepository) Dissolve(ctx context.Context, pair *models.Pair) error {
	restaurantIDs, err := r.collectIDs(ctx, `SELECT id FROM restaurants WHERE pair_id = $1`, pair.ID)
	if err != nil {
		return fmt.Errorf("failed to collect restaurants: %w", err)
	}
	eventIDs, err := r.collectIDs(ctx, `SELECT id FROM events WHERE pair_id = $1`, pair.ID)
	if err != nil {
		return fmt.Errorf("failed to collect events: %w", err)
	}

	// Votes are keyed by restaurant, so chunking their parent ids bounds the
	// vote deletes as well (at most two votes per restaurant).
	for _, chunk := range chunkIDs(restaurantIDs, deleteChunkSize) {
		if _, err := r.db.Exec(ctx,
			`DELETE FROM votes WHERE pair_id = $1 AND restaurant_id = ANY($2)`, pair.ID, chunk); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if _, err := r.db.Exec(ctx,
			`DELETE FROM restaurants WHERE id = ANY($1)`, chunk); err != nil {
			return fmt.Errorf("failed to delete restaurants: %w", err)
		}
	}

	for _, chunk := range chunkIDs(eventIDs, deleteChunkSize) {
		if _, err := r.db.Exec(ctx,
			`DELETE FROM events WHERE id = ANY($1)`, chunk); err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM pairs WHERE id = $1`, pair.ID); err != nil {
		return fmt.Errorf("failed to delete pair: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE users SET active_pair_id = NULL, updated_at = NOW()
		WHERE id = ANY($1) AND active_pair_id = $2
	`, pair.Members, pair.ID); err != nil {
		return fmt.Errorf("failed to clear member pointers: %w", err)
	}

	return nil
}

func (r *PairRepository) collectIDs(ctx context.Context, query, pairID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, pairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// chunkIDs splits ids into size-bounded slices.
func chunkIDs(ids []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[i:end])
	}
	return out
}
