package services

import (
	"context"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"
)

// Store interfaces consumed by the services. internal/repository provides
// the PostgreSQL implementations; tests substitute in-memory fakes.

// UserStore persists user records and their active pair pointer.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetActivePair(ctx context.Context, userID string, pairID *string) error
}

// PairStore persists pairs. Join and RemoveMember must serialize concurrent
// membership mutations on the same pair; Dissolve must be safely re-runnable
// after partial completion.
type PairStore interface {
	Create(ctx context.Context, pair *models.Pair) error
	GetByID(ctx context.Context, id string) (*models.Pair, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Join(ctx context.Context, inviteCode, userID string) (*models.Pair, error)
	RemoveMember(ctx context.Context, pairID, userID string) error
	Dissolve(ctx context.Context, pair *models.Pair) error
}

// RestaurantStore persists a pair's restaurant list.
type RestaurantStore interface {
	Create(ctx context.Context, rest *models.Restaurant) (created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindByPlaceID(ctx context.Context, pairID, placeID string) (*models.Restaurant, error)
	ListByPair(ctx context.Context, pairID string) ([]*models.Restaurant, error)
}

// VoteStore persists votes keyed by (pair, restaurant, user).
type VoteStore interface {
	Upsert(ctx context.Context, vote *models.Vote) error
	ListByPair(ctx context.Context, pairID string) ([]models.Vote, error)
}

// EventStore persists audit events.
type EventStore interface {
	Insert(ctx context.Context, event *models.Event) error
}

// requirePairMember loads the pair and verifies the caller belongs to it.
// Membership is always re-checked server-side; a client-asserted pair id is
// never trusted.
func requirePairMember(ctx context.Context, pairs PairStore, userID, pairID string) (*models.Pair, error) {
	pair, err := pairs.GetByID(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !pair.HasMember(userID) {
		return nil, apperr.New(apperr.PermissionDenied, "you are not a member of this pair")
	}
	return pair, nil
}
