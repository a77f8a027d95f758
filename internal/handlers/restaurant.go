package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// RestaurantHandler handles restaurant HTTP requests
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	pairService       *services.PairService
	wsHub             *services.WSHub
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(restaurantService *services.RestaurantService, pairService *services.PairService, wsHub *services.WSHub) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		pairService:       pairService,
		wsHub:             wsHub,
	}
}

// AddRestaurantRequest represents the request body for adding a restaurant
type AddRestaurantRequest struct {
	PairID string              `json:"pair_id"`
	Place  services.PlaceInput `json:"place"`
}

// AddRestaurantResponse represents the result of adding a restaurant
type AddRestaurantResponse struct {
	RestaurantID string `json:"restaurant_id"`
}

// AddRestaurant handles POST /api/v1/restaurants
func (h *RestaurantHandler) AddRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalid(w, "invalid request body")
		return
	}

	rest, err := h.restaurantService.Add(ctx, userID, req.PairID, req.Place)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("pair_id", req.PairID).
			Msg("Failed to add restaurant")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pair_id", req.PairID).
		Str("restaurant_id", rest.ID).
		Msg("Restaurant added")

	if pair, err := h.pairService.Get(ctx, rest.PairID); err == nil {
		h.wsHub.BroadcastToPair(pair.Members, services.WSMessage{
			Type: "restaurant_added",
			Data: map[string]any{"pair_id": rest.PairID, "restaurant_id": rest.ID, "name": rest.Name},
		})
	}

	respondJSON(w, http.StatusOK, AddRestaurantResponse{RestaurantID: rest.ID})
}
