package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/services"
	"table-for-two-backend/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the full API against the in-memory store, mirroring
// the production route table.
func newTestRouter(t *testing.T) (chi.Router, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()

	events := services.NewEventService(store.EventStore())
	userService := services.NewUserService(store, "test-secret")
	pairService := services.NewPairService(store.PairStore(), store, events)
	restaurantService := services.NewRestaurantService(store.RestaurantStore(), store.PairStore(), events)
	voteService := services.NewVoteService(store.VoteStore(), store.RestaurantStore(), store.PairStore(), events)
	summaryService := services.NewSummaryService(store.PairStore(), store.RestaurantStore(), store.VoteStore(), userService, events)
	wsHub := services.NewWSHub()

	userHandler := NewUserHandler(userService)
	pairHandler := NewPairHandler(pairService, wsHub)
	restaurantHandler := NewRestaurantHandler(restaurantService, pairService, wsHub)
	voteHandler := NewVoteHandler(voteService, wsHub)
	summaryHandler := NewSummaryHandler(summaryService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.CreateUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Post("/pairs", pairHandler.CreatePair)
			r.Post("/pairs/join", pairHandler.JoinPair)
			r.Post("/pairs/leave", pairHandler.LeavePair)
			r.Delete("/pairs", pairHandler.DissolvePair)
			r.Get("/pairs/{pair_id}/summary", summaryHandler.GetPairSummary)
			r.Post("/pairs/{pair_id}/decide", summaryHandler.Decide)
			r.Post("/restaurants", restaurantHandler.AddRestaurant)
			r.Post("/votes", voteHandler.CastVote)
		})
	})
	return r, store
}

func doRequest(t *testing.T, router chi.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createUser(t *testing.T, router chi.Router, name string) (id, token string) {
	rec := doRequest(t, router, http.MethodPost, "/api/v1/users", "", map[string]string{"display_name": name})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CreateUserResponse
	decode(t, rec, &resp)
	return resp.ID, resp.Token
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	decode(t, rec, &resp)
	return string(resp.Error.Kind)
}

func TestRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/pairs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/pairs", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPairLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	_, aliceToken := createUser(t, router, "Alice")
	bobID, bobToken := createUser(t, router, "Bob")
	_, carolToken := createUser(t, router, "Carol")

	// Alice creates a pair and gets a 6-char code.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/pairs", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var created CreatePairResponse
	decode(t, rec, &created)
	require.Len(t, created.InviteCode, 6)

	// Bob joins with the code.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/pairs/join", bobToken, JoinPairRequest{InviteCode: created.InviteCode})
	require.Equal(t, http.StatusOK, rec.Code)
	var joined JoinPairResponse
	decode(t, rec, &joined)
	assert.Equal(t, created.PairID, joined.PairID)

	// Carol is turned away: the pair is full.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/pairs/join", carolToken, JoinPairRequest{InviteCode: created.InviteCode})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "resource-exhausted", errorKind(t, rec))

	// Alice adds a restaurant, both vote.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/restaurants", aliceToken, AddRestaurantRequest{
		PairID: created.PairID,
		Place:  services.PlaceInput{Name: "Pizza Place"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var added AddRestaurantResponse
	decode(t, rec, &added)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/votes", aliceToken, CastVoteRequest{RestaurantID: added.RestaurantID, VoteType: "love"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/votes", bobToken, CastVoteRequest{RestaurantID: added.RestaurantID, VoteType: "like"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The summary shows the mutual match to both members.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/pairs/"+created.PairID+"/summary", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary services.PairSummary
	decode(t, rec, &summary)
	assert.Equal(t, []string{added.RestaurantID}, summary.Mutuals)
	assert.Equal(t, created.InviteCode, summary.InviteCode)
	require.Len(t, summary.Members, 2)
	assert.Equal(t, bobID, summary.Members[1].ID)

	// Single mutual match: the decision is that restaurant.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/pairs/"+created.PairID+"/decide", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var decision DecideResponse
	decode(t, rec, &decision)
	assert.Equal(t, "Pizza Place", decision.Restaurant.Name)

	// The host cannot leave, only dissolve.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/pairs/leave", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission-denied", errorKind(t, rec))

	// Bob cannot dissolve.
	rec = doRequest(t, router, http.MethodDelete, "/api/v1/pairs", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alice dissolves; the pair is gone for both members.
	rec = doRequest(t, router, http.MethodDelete, "/api/v1/pairs", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, token := range []string{aliceToken, bobToken} {
		rec = doRequest(t, router, http.MethodGet, "/api/v1/pairs/"+created.PairID+"/summary", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not-found", errorKind(t, rec))
	}
}

func TestCastVoteRejectsUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)
	_, aliceToken := createUser(t, router, "Alice")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/pairs", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var created CreatePairResponse
	decode(t, rec, &created)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/restaurants", aliceToken, AddRestaurantRequest{
		PairID: created.PairID,
		Place:  services.PlaceInput{Name: "Taco Stand"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var added AddRestaurantResponse
	decode(t, rec, &added)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/votes", aliceToken, CastVoteRequest{RestaurantID: added.RestaurantID, VoteType: "meh"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-argument", errorKind(t, rec))
}

func TestAddRestaurantDedupOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	_, aliceToken := createUser(t, router, "Alice")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/pairs", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var created CreatePairResponse
	decode(t, rec, &created)

	req := AddRestaurantRequest{
		PairID: created.PairID,
		Place:  services.PlaceInput{PlaceID: "place-1", Name: "Pizza Place"},
	}
	rec = doRequest(t, router, http.MethodPost, "/api/v1/restaurants", aliceToken, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var first AddRestaurantResponse
	decode(t, rec, &first)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/restaurants", aliceToken, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var second AddRestaurantResponse
	decode(t, rec, &second)

	assert.Equal(t, first.RestaurantID, second.RestaurantID)
}
