package services

import (
	"context"
	"time"

	"table-for-two-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventService writes audit events. Logging is fire-and-forget: a failed
// write is logged and swallowed so it can never fail the parent operation.
type EventService struct {
	eventStore EventStore
}

// NewEventService creates a new event service
func NewEventService(eventStore EventStore) *EventService {
	return &EventService{eventStore: eventStore}
}

// Log records an audit event
func (s *EventService) Log(ctx context.Context, userID string, pairID *string, eventName string, payload map[string]any) {
	event := &models.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		PairID:    pairID,
		EventName: eventName,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if err := s.eventStore.Insert(ctx, event); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_name", eventName).
			Msg("Failed to write audit event")
	}
}
