// Package testutil provides an in-memory implementation of the store
// interfaces so service and handler tests run without a database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"
)

// MemStore is an in-memory store implementing the services store
// interfaces. It mirrors the repository semantics, including the kinded
// errors the services rely on.
type MemStore struct {
	mu          sync.Mutex
	Users       map[string]*models.User
	Pairs       map[string]*models.Pair
	Restaurants map[string]*models.Restaurant
	Votes       map[[3]string]models.Vote
	Events      []*models.Event
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		Users:       make(map[string]*models.User),
		Pairs:       make(map[string]*models.Pair),
		Restaurants: make(map[string]*models.Restaurant),
		Votes:       make(map[[3]string]models.Vote),
	}
}

// SeedUser inserts a user record directly
func (s *MemStore) SeedUser(id, displayName string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	user := &models.User{ID: id, DisplayName: displayName, CreatedAt: now, UpdatedAt: now}
	s.Users[id] = user
	return user
}

// EventNames returns the names of all logged events in order
func (s *MemStore) EventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		names = append(names, e.EventName)
	}
	return names
}

// --- UserStore ---

func (s *MemStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[user.ID] = user
	return nil
}

func (s *MemStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return user, nil
}

func (s *MemStore) SetActivePair(ctx context.Context, userID string, pairID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[userID]
	if !ok {
		user = &models.User{ID: userID, CreatedAt: time.Now()}
		s.Users[userID] = user
	}
	user.ActivePairID = pairID
	user.UpdatedAt = time.Now()
	return nil
}

// --- PairStore ---
// Pairs wraps MemStore because PairStore and UserStore share method names
// with different row types.

// PairStore returns the pair-store view of the MemStore.
func (s *MemStore) PairStore() *MemPairStore { return &MemPairStore{s} }

// RestaurantStore returns the restaurant-store view of the MemStore.
func (s *MemStore) RestaurantStore() *MemRestaurantStore { return &MemRestaurantStore{s} }

// VoteStore returns the vote-store view of the MemStore.
func (s *MemStore) VoteStore() *MemVoteStore { return &MemVoteStore{s} }

// EventStore returns the event-store view of the MemStore.
func (s *MemStore) EventStore() *MemEventStore { return &MemEventStore{s} }

// MemPairStore implements services.PairStore
type MemPairStore struct{ s *MemStore }

func (p *MemPairStore) Create(ctx context.Context, pair *models.Pair) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.Pairs[pair.ID] = pair
	if user, ok := p.s.Users[pair.OwnerID]; ok {
		id := pair.ID
		user.ActivePairID = &id
	}
	return nil
}

func (p *MemPairStore) GetByID(ctx context.Context, id string) (*models.Pair, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	pair, ok := p.s.Pairs[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "pair not found")
	}
	return pair, nil
}

func (p *MemPairStore) CodeExists(ctx context.Context, code string) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, pair := range p.s.Pairs {
		if pair.InviteCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (p *MemPairStore) Join(ctx context.Context, inviteCode, userID string) (*models.Pair, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var pair *models.Pair
	for _, candidate := range p.s.Pairs {
		if candidate.InviteCode == inviteCode {
			pair = candidate
			break
		}
	}
	if pair == nil {
		return nil, apperr.New(apperr.NotFound, "invite code not found")
	}
	if pair.HasMember(userID) {
		return nil, apperr.New(apperr.AlreadyExists, "you already created this pair")
	}
	if len(pair.Members) >= 2 {
		return nil, apperr.New(apperr.ResourceExhausted, "this pair is already full (max 2 members)")
	}

	pair.Members = append(pair.Members, userID)
	if user, ok := p.s.Users[userID]; ok {
		id := pair.ID
		user.ActivePairID = &id
	}
	return pair, nil
}

func (p *MemPairStore) RemoveMember(ctx context.Context, pairID, userID string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if pair, ok := p.s.Pairs[pairID]; ok {
		members := pair.Members[:0]
		for _, m := range pair.Members {
			if m != userID {
				members = append(members, m)
			}
		}
		pair.Members = members
	}
	if user, ok := p.s.Users[userID]; ok {
		user.ActivePairID = nil
	}
	return nil
}

func (p *MemPairStore) Dissolve(ctx context.Context, pair *models.Pair) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	for id, rest := range p.s.Restaurants {
		if rest.PairID == pair.ID {
			delete(p.s.Restaurants, id)
		}
	}
	for key := range p.s.Votes {
		if key[0] == pair.ID {
			delete(p.s.Votes, key)
		}
	}
	kept := p.s.Events[:0]
	for _, e := range p.s.Events {
		if e.PairID == nil || *e.PairID != pair.ID {
			kept = append(kept, e)
		}
	}
	p.s.Events = kept

	delete(p.s.Pairs, pair.ID)

	for _, memberID := range pair.Members {
		if user, ok := p.s.Users[memberID]; ok {
			if user.ActivePairID != nil && *user.ActivePairID == pair.ID {
				user.ActivePairID = nil
			}
		}
	}
	return nil
}

// MemRestaurantStore implements services.RestaurantStore
type MemRestaurantStore struct{ s *MemStore }

func (r *MemRestaurantStore) Create(ctx context.Context, rest *models.Restaurant) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rest.PlaceID != nil {
		for _, existing := range r.s.Restaurants {
			if existing.PairID == rest.PairID && existing.PlaceID != nil && *existing.PlaceID == *rest.PlaceID {
				return false, nil
			}
		}
	}
	r.s.Restaurants[rest.ID] = rest
	return true, nil
}

func (r *MemRestaurantStore) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rest, ok := r.s.Restaurants[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "restaurant not found")
	}
	return rest, nil
}

func (r *MemRestaurantStore) FindByPlaceID(ctx context.Context, pairID, placeID string) (*models.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rest := range r.s.Restaurants {
		if rest.PairID == pairID && rest.PlaceID != nil && *rest.PlaceID == placeID {
			return rest, nil
		}
	}
	return nil, nil
}

func (r *MemRestaurantStore) ListByPair(ctx context.Context, pairID string) ([]*models.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Restaurant
	for _, rest := range r.s.Restaurants {
		if rest.PairID == pairID {
			out = append(out, rest)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MemVoteStore implements services.VoteStore
type MemVoteStore struct{ s *MemStore }

func (v *MemVoteStore) Upsert(ctx context.Context, vote *models.Vote) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.Votes[[3]string{vote.PairID, vote.RestaurantID, vote.UserID}] = *vote
	return nil
}

func (v *MemVoteStore) ListByPair(ctx context.Context, pairID string) ([]models.Vote, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var out []models.Vote
	for key, vote := range v.s.Votes {
		if key[0] == pairID {
			out = append(out, vote)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RestaurantID != out[j].RestaurantID {
			return out[i].RestaurantID < out[j].RestaurantID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// MemEventStore implements services.EventStore
type MemEventStore struct{ s *MemStore }

func (e *MemEventStore) Insert(ctx context.Context, event *models.Event) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.s.Events = append(e.s.Events, event)
	return nil
}
