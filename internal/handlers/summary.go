package handlers

import (
	"net/http"

	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/models"
	"table-for-two-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SummaryHandler handles pair summary and decision HTTP requests
type SummaryHandler struct {
	summaryService *services.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// DecideResponse represents the result of a decision
type DecideResponse struct {
	Restaurant *models.Restaurant `json:"restaurant"`
}

// GetPairSummary handles GET /api/v1/pairs/{pair_id}/summary
func (h *SummaryHandler) GetPairSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pairID := chi.URLParam(r, "pair_id")

	summary, err := h.summaryService.Summary(ctx, userID, pairID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("pair_id", pairID).
			Msg("Failed to get pair summary")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Decide handles POST /api/v1/pairs/{pair_id}/decide
func (h *SummaryHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pairID := chi.URLParam(r, "pair_id")

	restaurant, err := h.summaryService.Decide(ctx, userID, pairID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("pair_id", pairID).
			Msg("Failed to decide")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pair_id", pairID).
		Str("restaurant_id", restaurant.ID).
		Msg("Decision made")

	respondJSON(w, http.StatusOK, DecideResponse{Restaurant: restaurant})
}
