package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWSPipe dials a throwaway upgrade server and hands back both ends of
// the resulting connection.
func newWSPipe(t *testing.T) (server, client *websocket.Conn, cleanup func()) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- c
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	server = <-conns

	return server, client, func() {
		client.Close()
		server.Close()
		srv.Close()
	}
}

func TestWSHubReconnectKeepsNewConnection(t *testing.T) {
	hub := NewWSHub()

	oldConn, _, cleanupOld := newWSPipe(t)
	defer cleanupOld()
	newConn, newClient, cleanupNew := newWSPipe(t)
	defer cleanupNew()

	hub.Register("alice", oldConn)
	hub.Register("alice", newConn)

	// The replaced handler tears down once its read loop unblocks; that
	// must not take the replacement connection with it.
	hub.Unregister("alice", oldConn)
	require.True(t, hub.IsOnline("alice"))

	require.NoError(t, hub.SendToUser("alice", WSMessage{Type: "pair_status"}))
	var msg WSMessage
	require.NoError(t, newClient.ReadJSON(&msg))
	assert.Equal(t, "pair_status", msg.Type)

	hub.Unregister("alice", newConn)
	assert.False(t, hub.IsOnline("alice"))
}

func TestWSHubSendToOfflineUser(t *testing.T) {
	hub := NewWSHub()
	err := hub.SendToUser("nobody", WSMessage{Type: "pair_status"})
	assert.Error(t, err)
}
