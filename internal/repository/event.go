package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"table-for-two-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles database operations for audit events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Insert writes an audit event
func (r *EventRepository) Insert(ctx context.Context, event *models.Event) error {
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	query := `
		INSERT INTO events (id, user_id, pair_id, event_name, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query,
		event.ID, event.UserID, event.PairID, event.EventName, data, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
