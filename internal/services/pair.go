package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	inviteCodeLength = 6
	// No 0/O/1/I: invite codes get read aloud and typed on phones.
	inviteCodeChars    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeAttempts = 5
)

// PairService handles pair lifecycle: create, join, leave, dissolve.
type PairService struct {
	pairStore PairStore
	userStore UserStore
	events    *EventService

	// genCode produces invite code candidates; replaced in tests.
	genCode func() string
}

// NewPairService creates a new pair service
func NewPairService(pairStore PairStore, userStore UserStore, events *EventService) *PairService {
	return &PairService{
		pairStore: pairStore,
		userStore: userStore,
		events:    events,
		genCode:   generateInviteCode,
	}
}

// generateInviteCode generates a random invite code
func generateInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}

// activePairID returns the user's active pair pointer, or nil. A missing
// user record simply means no pair yet.
func (s *PairService) activePairID(ctx context.Context, userID string) (*string, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return user.ActivePairID, nil
}

// Create creates a new pair owned by the requester and returns it.
func (s *PairService) Create(ctx context.Context, userID string) (*models.Pair, error) {
	active, err := s.activePairID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active pair: %w", err)
	}
	if active != nil {
		return nil, apperr.New(apperr.AlreadyExists, "you are already in a pair. Leave your current pair first.")
	}

	// Up to 5 generated codes; the last one is used even if the collision
	// check never came back clean. The schema's unique index still rejects
	// a genuine duplicate at insert.
	code := s.genCode()
	for attempt := 0; attempt < inviteCodeAttempts-1; attempt++ {
		exists, err := s.pairStore.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check invite code: %w", err)
		}
		if !exists {
			break
		}
		log.Warn().Str("invite_code", code).Msg("Invite code collision, regenerating")
		code = s.genCode()
	}

	pair := &models.Pair{
		ID:         uuid.New().String(),
		Members:    []string{userID},
		OwnerID:    userID,
		InviteCode: code,
		CreatedAt:  time.Now(),
	}

	if err := s.pairStore.Create(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to create pair: %w", err)
	}

	s.events.Log(ctx, userID, &pair.ID, "pair_created", map[string]any{"invite_code": code})

	return pair, nil
}

// Join adds the requester to the pair matching the invite code.
func (s *PairService) Join(ctx context.Context, userID, inviteCode string) (*models.Pair, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, apperr.New(apperr.InvalidArgument, "invite code is required")
	}

	active, err := s.activePairID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active pair: %w", err)
	}
	if active != nil {
		return nil, apperr.New(apperr.AlreadyExists, "you are already in a pair. Leave your current pair first.")
	}

	pair, err := s.pairStore.Join(ctx, code, userID)
	if err != nil {
		return nil, err
	}

	s.events.Log(ctx, userID, &pair.ID, "pair_joined", nil)

	return pair, nil
}

// Leave removes the requester (a non-owner member) from their active pair.
// It returns the pair that was left, or nil when the pointer was stale and
// only had to be cleaned up.
func (s *PairService) Leave(ctx context.Context, userID string) (*models.Pair, error) {
	active, err := s.activePairID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active pair: %w", err)
	}
	if active == nil {
		return nil, apperr.New(apperr.FailedPrecondition, "you are not currently in a pair")
	}

	pair, err := s.pairStore.GetByID(ctx, *active)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			// Pair already gone; clear the stale pointer and succeed.
			if err := s.userStore.SetActivePair(ctx, userID, nil); err != nil {
				return nil, fmt.Errorf("failed to clear active pair: %w", err)
			}
			return nil, nil
		}
		return nil, err
	}

	if !pair.HasMember(userID) {
		if err := s.userStore.SetActivePair(ctx, userID, nil); err != nil {
			return nil, fmt.Errorf("failed to clear active pair: %w", err)
		}
		return nil, nil
	}

	if userID == pair.Owner() {
		return nil, apperr.New(apperr.PermissionDenied, "hosts cannot leave the pair. End the pair instead.")
	}

	if err := s.pairStore.RemoveMember(ctx, pair.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to leave pair: %w", err)
	}

	s.events.Log(ctx, userID, &pair.ID, "pair_left", nil)

	return pair, nil
}

// Dissolve ends the requester's active pair: deletes every restaurant, vote
// and audit event scoped to it, the pair itself, and clears every former
// member's pointer. Only the owner may dissolve. Returns the dissolved pair,
// or nil when only a stale pointer had to be cleaned up.
func (s *PairService) Dissolve(ctx context.Context, userID string) (*models.Pair, error) {
	active, err := s.activePairID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active pair: %w", err)
	}
	if active == nil {
		return nil, apperr.New(apperr.FailedPrecondition, "you are not currently in a pair")
	}

	pair, err := s.pairStore.GetByID(ctx, *active)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			if err := s.userStore.SetActivePair(ctx, userID, nil); err != nil {
				return nil, fmt.Errorf("failed to clear active pair: %w", err)
			}
			return nil, nil
		}
		return nil, err
	}

	if userID != pair.Owner() {
		return nil, apperr.New(apperr.PermissionDenied, "only the host can end this pair")
	}

	if err := s.pairStore.Dissolve(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to dissolve pair: %w", err)
	}

	s.events.Log(ctx, userID, nil, "pair_deleted", map[string]any{"pair_id": pair.ID})

	return pair, nil
}

// Get retrieves a pair by id
func (s *PairService) Get(ctx context.Context, pairID string) (*models.Pair, error) {
	return s.pairStore.GetByID(ctx, pairID)
}
