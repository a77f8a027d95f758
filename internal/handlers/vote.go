package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/models"
	"table-for-two-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// VoteHandler handles vote HTTP requests
type VoteHandler struct {
	voteService *services.VoteService
	wsHub       *services.WSHub
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService *services.VoteService, wsHub *services.WSHub) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		wsHub:       wsHub,
	}
}

// CastVoteRequest represents the request body for casting a vote
type CastVoteRequest struct {
	RestaurantID string          `json:"restaurant_id"`
	VoteType     models.VoteType `json:"vote_type"`
}

// CastVote handles POST /api/v1/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalid(w, "invalid request body")
		return
	}

	vote, pair, err := h.voteService.Cast(ctx, userID, req.RestaurantID, req.VoteType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("restaurant_id", req.RestaurantID).
			Msg("Failed to cast vote")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("restaurant_id", vote.RestaurantID).
		Str("vote_type", string(vote.VoteType)).
		Msg("Vote cast")

	// The vote itself stays private to its caster; partners only learn that
	// the pair state changed and should re-read the summary.
	h.wsHub.BroadcastToPair(pair.Members, services.WSMessage{
		Type: "vote_cast",
		Data: map[string]any{"pair_id": vote.PairID},
	})

	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}
