package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// CreateUserResponse represents the response for a created user
type CreateUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if r.Body != nil {
		// Body is optional; an anonymous guest identity works too.
		json.NewDecoder(r.Body).Decode(&req)
	}

	user, token, err := h.userService.CreateUser(ctx, req.DisplayName, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Msg("User created")

	respondJSON(w, http.StatusOK, CreateUserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Token:       token,
	})
}
