package handlers

import (
	"encoding/json"
	"net/http"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// HandleWebSocket handles GET /ws?token=...
//
// The socket is a one-way live-update channel: the server pushes pair
// events, the client only reads. A summary fetch after each push is how
// clients refresh; the socket itself carries no state.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, apperr.New(apperr.Unauthenticated, "token required"))
		return
	}

	userID, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, apperr.New(apperr.Unauthenticated, "invalid token"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	// Tell the client where it stands right away.
	ctx := r.Context()
	status := services.WSMessage{
		Type: "pair_status",
		Data: map[string]any{"has_pair": false},
	}
	if user, err := h.userService.Get(ctx, userID); err == nil && user.ActivePairID != nil {
		status.Data = map[string]any{"has_pair": true, "pair_id": *user.ActivePairID}
	}
	if err := h.hub.SendToUser(userID, status); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to send pair_status message")
	}

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case "ping":
			if err := h.hub.SendToUser(userID, services.WSMessage{Type: "pong"}); err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to send pong")
			}
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

// sendError sends an error message to the WebSocket connection
func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	msg := services.WSMessage{
		Type:    "error",
		Message: message,
	}
	data, _ := json.Marshal(msg)
	conn.WriteMessage(websocket.TextMessage, data)
}
