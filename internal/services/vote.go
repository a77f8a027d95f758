package services

import (
	"context"
	"fmt"
	"time"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"
)

// VoteService handles casting votes.
type VoteService struct {
	voteStore       VoteStore
	restaurantStore RestaurantStore
	pairStore       PairStore
	events          *EventService
}

// NewVoteService creates a new vote service
func NewVoteService(voteStore VoteStore, restaurantStore RestaurantStore, pairStore PairStore, events *EventService) *VoteService {
	return &VoteService{
		voteStore:       voteStore,
		restaurantStore: restaurantStore,
		pairStore:       pairStore,
		events:          events,
	}
}

// Cast records the requester's vote on a restaurant, replacing any earlier
// vote by the same user on it. Returns the stored vote and the restaurant's
// pair so callers can fan the change out.
func (s *VoteService) Cast(ctx context.Context, userID, restaurantID string, voteType models.VoteType) (*models.Vote, *models.Pair, error) {
	if restaurantID == "" {
		return nil, nil, apperr.New(apperr.InvalidArgument, "restaurant id is required")
	}
	if !voteType.Valid() {
		return nil, nil, apperr.New(apperr.InvalidArgument, "vote type must be like, love, or dislike")
	}

	rest, err := s.restaurantStore.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}

	// Membership is checked against the restaurant's own pair, which also
	// shuts down cross-pair restaurant id guessing.
	pair, err := requirePairMember(ctx, s.pairStore, userID, rest.PairID)
	if err != nil {
		return nil, nil, err
	}

	vote := &models.Vote{
		PairID:       rest.PairID,
		RestaurantID: restaurantID,
		UserID:       userID,
		VoteType:     voteType,
		UpdatedAt:    time.Now(),
	}
	if err := s.voteStore.Upsert(ctx, vote); err != nil {
		return nil, nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.events.Log(ctx, userID, &rest.PairID, "vote_cast", map[string]any{
		"restaurant_id": restaurantID,
		"vote_type":     string(voteType),
	})

	return vote, pair, nil
}
