package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/models"
	"table-for-two-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PairHandler handles pair lifecycle HTTP requests
type PairHandler struct {
	pairService *services.PairService
	wsHub       *services.WSHub
}

// NewPairHandler creates a new pair handler
func NewPairHandler(pairService *services.PairService, wsHub *services.WSHub) *PairHandler {
	return &PairHandler{
		pairService: pairService,
		wsHub:       wsHub,
	}
}

// CreatePairResponse represents the result of creating a pair
type CreatePairResponse struct {
	PairID     string `json:"pair_id"`
	InviteCode string `json:"invite_code"`
}

// JoinPairRequest represents the request body for joining a pair
type JoinPairRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinPairResponse represents the result of joining a pair
type JoinPairResponse struct {
	PairID string `json:"pair_id"`
}

// OKResponse acknowledges an operation with no other result
type OKResponse struct {
	OK bool `json:"ok"`
}

// CreatePair handles POST /api/v1/pairs
func (h *PairHandler) CreatePair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	pair, err := h.pairService.Create(ctx, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to create pair")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pair_id", pair.ID).
		Msg("Pair created")

	respondJSON(w, http.StatusOK, CreatePairResponse{
		PairID:     pair.ID,
		InviteCode: pair.InviteCode,
	})
}

// JoinPair handles POST /api/v1/pairs/join
func (h *PairHandler) JoinPair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req JoinPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalid(w, "invalid request body")
		return
	}

	pair, err := h.pairService.Join(ctx, userID, req.InviteCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to join pair")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pair_id", pair.ID).
		Msg("Pair joined")

	h.wsHub.BroadcastToPair(pair.Members, services.WSMessage{
		Type: "pair_joined",
		Data: map[string]any{"pair_id": pair.ID, "user_id": userID},
	})

	respondJSON(w, http.StatusOK, JoinPairResponse{PairID: pair.ID})
}

// LeavePair handles POST /api/v1/pairs/leave
func (h *PairHandler) LeavePair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	pair, err := h.pairService.Leave(ctx, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to leave pair")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Pair left")

	if pair != nil {
		h.notifyPair(pair, userID, services.WSMessage{
			Type: "pair_left",
			Data: map[string]any{"pair_id": pair.ID, "user_id": userID},
		})
	}

	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}

// DissolvePair handles DELETE /api/v1/pairs
func (h *PairHandler) DissolvePair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	pair, err := h.pairService.Dissolve(ctx, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to dissolve pair")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Pair dissolved")

	if pair != nil {
		h.notifyPair(pair, userID, services.WSMessage{
			Type: "pair_dissolved",
			Data: map[string]any{"pair_id": pair.ID},
		})
	}

	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}

// notifyPair pushes to every pair member including the requester, so all
// open clients refresh.
func (h *PairHandler) notifyPair(pair *models.Pair, userID string, msg services.WSMessage) {
	members := pair.Members
	if !pair.HasMember(userID) {
		members = append(append([]string{}, members...), userID)
	}
	h.wsHub.BroadcastToPair(members, msg)
}
