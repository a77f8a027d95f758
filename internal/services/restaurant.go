package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/google/uuid"
)

// PlaceInput is a candidate place supplied by the client's place-search
// collaborator. Only the name is required.
type PlaceInput struct {
	PlaceID        string   `json:"place_id,omitempty"`
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	PhotoURL       string   `json:"photo_url,omitempty"`
	PhotoReference string   `json:"photo_reference,omitempty"`
}

// RestaurantService handles the per-pair restaurant list.
type RestaurantService struct {
	restaurantStore RestaurantStore
	pairStore       PairStore
	events          *EventService
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(restaurantStore RestaurantStore, pairStore PairStore, events *EventService) *RestaurantService {
	return &RestaurantService{
		restaurantStore: restaurantStore,
		pairStore:       pairStore,
		events:          events,
	}
}

// Add puts a restaurant on the pair's list. Adding the same place twice is
// idempotent: the existing record is returned instead of a duplicate.
func (s *RestaurantService) Add(ctx context.Context, userID, pairID string, place PlaceInput) (*models.Restaurant, error) {
	name := strings.TrimSpace(place.Name)
	if pairID == "" || name == "" {
		return nil, apperr.New(apperr.InvalidArgument, "pair id and place name are required")
	}

	if _, err := requirePairMember(ctx, s.pairStore, userID, pairID); err != nil {
		return nil, err
	}

	if place.PlaceID != "" {
		existing, err := s.restaurantStore.FindByPlaceID(ctx, pairID, place.PlaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for duplicate place: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	rest := &models.Restaurant{
		ID:        uuid.New().String(),
		PairID:    pairID,
		Name:      name,
		AddedBy:   userID,
		CreatedAt: time.Now(),
	}
	if place.PlaceID != "" {
		rest.PlaceID = &place.PlaceID
	}
	if addr := strings.TrimSpace(place.Address); addr != "" {
		rest.Address = &addr
	}
	rest.Lat = place.Lat
	rest.Lng = place.Lng
	if u := strings.TrimSpace(place.PhotoURL); u != "" {
		rest.PhotoURL = &u
	}
	if ref := strings.TrimSpace(place.PhotoReference); ref != "" {
		rest.PhotoReference = &ref
	}

	created, err := s.restaurantStore.Create(ctx, rest)
	if err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}
	if !created {
		// Lost a race with a concurrent add of the same place; the store
		// kept exactly one row, return it.
		existing, err := s.restaurantStore.FindByPlaceID(ctx, pairID, place.PlaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing restaurant: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("restaurant insert affected no rows and no existing record found")
	}

	s.events.Log(ctx, userID, &pairID, "restaurant_added", map[string]any{"name": name})

	return rest, nil
}
