package models

import "time"

// VoteType is the sentiment a user expresses about a restaurant.
type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteLove    VoteType = "love"
	VoteDislike VoteType = "dislike"
)

// Valid reports whether the vote type is one of the recognized values.
func (v VoteType) Valid() bool {
	switch v {
	case VoteLike, VoteLove, VoteDislike:
		return true
	}
	return false
}

// Positive reports whether the vote counts toward a mutual match.
func (v VoteType) Positive() bool {
	return v == VoteLike || v == VoteLove
}

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        *string   `json:"email,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	ActivePairID *string   `json:"active_pair_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Pair represents a dining pair: one or two users sharing a restaurant list.
// Members is ordered; the creator is first.
type Pair struct {
	ID         string    `json:"id"`
	Members    []string  `json:"members"`
	OwnerID    string    `json:"owner_id"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// Owner returns the pair owner, falling back to the first member for
// records written before owner_id existed.
func (p *Pair) Owner() string {
	if p.OwnerID != "" {
		return p.OwnerID
	}
	if len(p.Members) > 0 {
		return p.Members[0]
	}
	return ""
}

// HasMember reports whether the user belongs to the pair.
func (p *Pair) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Restaurant represents a candidate restaurant on a pair's list
type Restaurant struct {
	ID             string    `json:"id"`
	PairID         string    `json:"pair_id"`
	PlaceID        *string   `json:"place_id,omitempty"`
	Name           string    `json:"name"`
	Address        *string   `json:"address,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	PhotoReference *string   `json:"photo_reference,omitempty"`
	AddedBy        string    `json:"added_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// Vote represents one user's current vote on a restaurant. Identity is the
// composite key (pair_id, restaurant_id, user_id): casting again overwrites.
type Vote struct {
	PairID       string    `json:"pair_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id"`
	VoteType     VoteType  `json:"vote_type"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event is an audit-log record. Writing one is fire-and-forget.
type Event struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	PairID    *string        `json:"pair_id,omitempty"`
	EventName string         `json:"event_name"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MemberProfile is the display profile resolved for a pair member.
type MemberProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}
