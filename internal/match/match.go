// Package match computes mutual matches and weighted decisions over a pair's
// votes. Everything here is pure: results are derived fresh from the inputs
// on every call and never cached, so a revoked vote is reflected immediately.
package match

import (
	"table-for-two-backend/internal/models"
)

// Candidate is a mutually matched restaurant with its selection weight.
type Candidate struct {
	RestaurantID string
	Weight       int
}

// Mutuals returns the ids of restaurants every member voted like or love on,
// preserving the order of restaurantIDs. A pair with fewer than two members
// has no mutuals by definition.
func Mutuals(restaurantIDs []string, votes []models.Vote, members []string) []string {
	mutuals := []string{}
	for _, c := range Candidates(restaurantIDs, votes, members) {
		mutuals = append(mutuals, c.RestaurantID)
	}
	return mutuals
}

// Candidates returns the mutual matches together with their decision weights:
// love from both members weighs 4, love from one 2, like from both 1.
func Candidates(restaurantIDs []string, votes []models.Vote, members []string) []Candidate {
	if len(members) < 2 {
		return nil
	}

	// vote lookup keyed by (restaurant, user)
	byKey := make(map[[2]string]models.VoteType, len(votes))
	for _, v := range votes {
		byKey[[2]string{v.RestaurantID, v.UserID}] = v.VoteType
	}

	var candidates []Candidate
	for _, rid := range restaurantIDs {
		allPositive := true
		loveCount := 0
		for _, member := range members {
			vt, ok := byKey[[2]string{rid, member}]
			if !ok || !vt.Positive() {
				allPositive = false
				break
			}
			if vt == models.VoteLove {
				loveCount++
			}
		}
		if !allPositive {
			continue
		}

		weight := 1
		switch loveCount {
		case 2:
			weight = 4
		case 1:
			weight = 2
		}
		candidates = append(candidates, Candidate{RestaurantID: rid, Weight: weight})
	}
	return candidates
}

// TotalWeight sums candidate weights.
func TotalWeight(candidates []Candidate) int {
	total := 0
	for _, c := range candidates {
		total += c.Weight
	}
	return total
}

// Pick selects one candidate by weighted random sampling. random must be a
// uniform value in [0, 1). Candidates are walked in their given (stable)
// order, subtracting each weight from the scaled draw until it goes
// non-positive. Returns false if there are no candidates.
func Pick(candidates []Candidate, random float64) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	remaining := random * float64(TotalWeight(candidates))
	chosen := candidates[0]
	for _, c := range candidates {
		remaining -= float64(c.Weight)
		if remaining <= 0 {
			chosen = c
			break
		}
	}
	return chosen, true
}
