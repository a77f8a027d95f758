package services

import (
	"context"
	"fmt"
	"math/rand"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/match"
	"table-for-two-backend/internal/models"
)

// PairSummary is one consistent read of a pair's state: the full list, all
// votes, the freshly computed mutual matches, and resolved member profiles.
type PairSummary struct {
	Restaurants []*models.Restaurant   `json:"restaurants"`
	Votes       []models.Vote          `json:"votes"`
	Mutuals     []string               `json:"mutuals"`
	InviteCode  string                 `json:"invite_code"`
	OwnerID     string                 `json:"owner_id"`
	Members     []models.MemberProfile `json:"members"`
}

// SummaryService composes restaurants, votes and matches into pair reads
// and runs the weighted "decide for us" pick.
type SummaryService struct {
	pairStore       PairStore
	restaurantStore RestaurantStore
	voteStore       VoteStore
	userService     *UserService
	events          *EventService

	// random returns a uniform draw in [0, 1); replaced in tests.
	random func() float64
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	pairStore PairStore,
	restaurantStore RestaurantStore,
	voteStore VoteStore,
	userService *UserService,
	events *EventService,
) *SummaryService {
	return &SummaryService{
		pairStore:       pairStore,
		restaurantStore: restaurantStore,
		voteStore:       voteStore,
		userService:     userService,
		events:          events,
		random:          rand.Float64,
	}
}

func (s *SummaryService) loadPairState(ctx context.Context, userID, pairID string) (*models.Pair, []*models.Restaurant, []models.Vote, error) {
	if pairID == "" {
		return nil, nil, nil, apperr.New(apperr.InvalidArgument, "pair id is required")
	}

	pair, err := requirePairMember(ctx, s.pairStore, userID, pairID)
	if err != nil {
		return nil, nil, nil, err
	}

	restaurants, err := s.restaurantStore.ListByPair(ctx, pairID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	votes, err := s.voteStore.ListByPair(ctx, pairID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list votes: %w", err)
	}

	return pair, restaurants, votes, nil
}

// Summary returns the full pair state. Mutual matches are recomputed from
// the current votes on every call, never cached.
func (s *SummaryService) Summary(ctx context.Context, userID, pairID string) (*PairSummary, error) {
	pair, restaurants, votes, err := s.loadPairState(ctx, userID, pairID)
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberProfile, 0, len(pair.Members))
	for _, memberID := range pair.Members {
		profile, err := s.userService.Profile(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve member profile: %w", err)
		}
		members = append(members, profile)
	}

	if restaurants == nil {
		restaurants = []*models.Restaurant{}
	}
	if votes == nil {
		votes = []models.Vote{}
	}

	return &PairSummary{
		Restaurants: restaurants,
		Votes:       votes,
		Mutuals:     match.Mutuals(restaurantIDs(restaurants), votes, pair.Members),
		InviteCode:  pair.InviteCode,
		OwnerID:     pair.Owner(),
		Members:     members,
	}, nil
}

// Decide picks one restaurant from the pair's current mutual matches by
// weighted random selection and returns its full record.
func (s *SummaryService) Decide(ctx context.Context, userID, pairID string) (*models.Restaurant, error) {
	pair, restaurants, votes, err := s.loadPairState(ctx, userID, pairID)
	if err != nil {
		return nil, err
	}

	if len(pair.Members) < 2 {
		return nil, apperr.New(apperr.FailedPrecondition, "your pair needs 2 members before deciding")
	}

	candidates := match.Candidates(restaurantIDs(restaurants), votes, pair.Members)
	chosen, ok := match.Pick(candidates, s.random())
	if !ok {
		return nil, apperr.New(apperr.FailedPrecondition, "no mutual matches yet. Both of you need to vote on restaurants.")
	}

	var picked *models.Restaurant
	for _, rest := range restaurants {
		if rest.ID == chosen.RestaurantID {
			picked = rest
			break
		}
	}
	if picked == nil {
		return nil, fmt.Errorf("chosen restaurant %s not found in pair list", chosen.RestaurantID)
	}

	s.events.Log(ctx, userID, &pairID, "decide_for_us", map[string]any{"chosen": picked.Name})

	return picked, nil
}

func restaurantIDs(restaurants []*models.Restaurant) []string {
	ids := make([]string, 0, len(restaurants))
	for _, rest := range restaurants {
		ids = append(ids, rest.ID)
	}
	return ids
}
