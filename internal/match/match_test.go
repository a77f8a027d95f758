package match_test

import (
	"math/rand"
	"testing"

	"table-for-two-backend/internal/match"
	"table-for-two-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vote(rest, user string, vt models.VoteType) models.Vote {
	return models.Vote{PairID: "p1", RestaurantID: rest, UserID: user, VoteType: vt}
}

func TestMutualsNeedsTwoMembers(t *testing.T) {
	votes := []models.Vote{vote("r1", "alice", models.VoteLove)}

	assert.Empty(t, match.Mutuals([]string{"r1"}, votes, []string{"alice"}))
	assert.Empty(t, match.Mutuals([]string{"r1"}, votes, nil))
}

func TestMutualsRequiresPositiveVoteFromEveryMember(t *testing.T) {
	ids := []string{"r1", "r2", "r3", "r4"}
	members := []string{"alice", "bob"}
	votes := []models.Vote{
		// r1: both positive
		vote("r1", "alice", models.VoteLove),
		vote("r1", "bob", models.VoteLike),
		// r2: one dislike
		vote("r2", "alice", models.VoteLike),
		vote("r2", "bob", models.VoteDislike),
		// r3: only one member voted
		vote("r3", "alice", models.VoteLove),
		// r4: no votes at all
	}

	assert.Equal(t, []string{"r1"}, match.Mutuals(ids, votes, members))
}

func TestMutualsCommutativeInMemberOrder(t *testing.T) {
	ids := []string{"r1", "r2"}
	votes := []models.Vote{
		vote("r1", "alice", models.VoteLike),
		vote("r1", "bob", models.VoteLove),
		vote("r2", "alice", models.VoteDislike),
		vote("r2", "bob", models.VoteLove),
	}

	forward := match.Mutuals(ids, votes, []string{"alice", "bob"})
	reversed := match.Mutuals(ids, votes, []string{"bob", "alice"})
	assert.Equal(t, forward, reversed)
}

func TestMutualsRecomputedAfterVoteChange(t *testing.T) {
	ids := []string{"r1"}
	members := []string{"alice", "bob"}
	votes := []models.Vote{
		vote("r1", "alice", models.VoteLove),
		vote("r1", "bob", models.VoteLike),
	}
	require.Equal(t, []string{"r1"}, match.Mutuals(ids, votes, members))

	// Bob revokes: the next computation must drop the match.
	votes[1].VoteType = models.VoteDislike
	assert.Empty(t, match.Mutuals(ids, votes, members))
}

func TestCandidateWeights(t *testing.T) {
	ids := []string{"r1", "r2", "r3"}
	members := []string{"alice", "bob"}
	votes := []models.Vote{
		vote("r1", "alice", models.VoteLove),
		vote("r1", "bob", models.VoteLove),
		vote("r2", "alice", models.VoteLove),
		vote("r2", "bob", models.VoteLike),
		vote("r3", "alice", models.VoteLike),
		vote("r3", "bob", models.VoteLike),
	}

	candidates := match.Candidates(ids, votes, members)
	require.Len(t, candidates, 3)
	assert.Equal(t, match.Candidate{RestaurantID: "r1", Weight: 4}, candidates[0])
	assert.Equal(t, match.Candidate{RestaurantID: "r2", Weight: 2}, candidates[1])
	assert.Equal(t, match.Candidate{RestaurantID: "r3", Weight: 1}, candidates[2])
	assert.Equal(t, 7, match.TotalWeight(candidates))
}

func TestPickEmpty(t *testing.T) {
	_, ok := match.Pick(nil, 0.5)
	assert.False(t, ok)
}

func TestPickSingleCandidateIsDeterministic(t *testing.T) {
	candidates := []match.Candidate{{RestaurantID: "r1", Weight: 1}}
	for _, draw := range []float64{0, 0.25, 0.5, 0.999} {
		chosen, ok := match.Pick(candidates, draw)
		require.True(t, ok)
		assert.Equal(t, "r1", chosen.RestaurantID)
	}
}

func TestPickBoundaries(t *testing.T) {
	candidates := []match.Candidate{
		{RestaurantID: "r1", Weight: 4},
		{RestaurantID: "r2", Weight: 2},
		{RestaurantID: "r3", Weight: 1},
	}

	chosen, ok := match.Pick(candidates, 0)
	require.True(t, ok)
	assert.Equal(t, "r1", chosen.RestaurantID)

	// 4/7 lands exactly on the r1/r2 boundary; the walk selects on
	// non-positive remainder, so r1 takes its full closed interval.
	chosen, _ = match.Pick(candidates, 4.0/7.0)
	assert.Equal(t, "r1", chosen.RestaurantID)

	chosen, _ = match.Pick(candidates, 0.99999)
	assert.Equal(t, "r3", chosen.RestaurantID)
}

func TestPickFrequenciesConvergeToWeights(t *testing.T) {
	candidates := []match.Candidate{
		{RestaurantID: "r1", Weight: 4},
		{RestaurantID: "r2", Weight: 2},
		{RestaurantID: "r3", Weight: 1},
	}

	rng := rand.New(rand.NewSource(42))
	const trials = 70000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		chosen, ok := match.Pick(candidates, rng.Float64())
		require.True(t, ok)
		counts[chosen.RestaurantID]++
	}

	assert.InDelta(t, 4.0/7.0, float64(counts["r1"])/trials, 0.01)
	assert.InDelta(t, 2.0/7.0, float64(counts["r2"])/trials, 0.01)
	assert.InDelta(t, 1.0/7.0, float64(counts["r3"])/trials, 0.01)
}
