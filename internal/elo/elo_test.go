package elo_test

import (
	"testing"

	"github.com/depressed1503/maria-rating/internal/elo"
	"github.com/stretchr/testify/assert"
)

func TestUpdateEqualRatings(t *testing.T) {
	newWinner, newLoser := elo.Update(1500, 1500, elo.DefaultK)
	assert.Equal(t, 1516, newWinner)
	assert.Equal(t, 1484, newLoser)
}

func TestUpdateWinnerAlwaysGains(t *testing.T) {
	cases := []struct {
		name           string
		winner, loser  int
	}{
		{"equal", 1500, 1500},
		{"favourite wins", 1800, 1400},
		{"underdog wins", 1400, 1800},
		{"low ratings", 900, 1100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newWinner, newLoser := elo.Update(tc.winner, tc.loser, elo.DefaultK)
			assert.Greater(t, newWinner, tc.winner)
			assert.Less(t, newLoser, tc.loser)
		})
	}
}

func TestUpdateApproximatelyZeroSum(t *testing.T) {
	// Rounding may break exact zero-sum by at most one point.
	for _, pair := range [][2]int{{1500, 1500}, {1650, 1432}, {1200, 1875}, {2000, 1999}} {
		newWinner, newLoser := elo.Update(pair[0], pair[1], elo.DefaultK)
		deltaSum := (newWinner - pair[0]) + (newLoser - pair[1])
		assert.LessOrEqual(t, abs(deltaSum), 1, "ratings %v", pair)
	}
}

func TestUpdateUnderdogGainsMore(t *testing.T) {
	underdogNew, _ := elo.Update(1400, 1800, elo.DefaultK)
	favouriteNew, _ := elo.Update(1800, 1400, elo.DefaultK)
	assert.Greater(t, underdogNew-1400, favouriteNew-1800)
}

func TestTeamUpdate(t *testing.T) {
	t.Run("equal teams move like an even singles match", func(t *testing.T) {
		newWinners, newLosers := elo.TeamUpdate([2]int{1500, 1500}, [2]int{1500, 1500}, elo.DefaultK)
		assert.Equal(t, [2]int{1516, 1516}, newWinners)
		assert.Equal(t, [2]int{1484, 1484}, newLosers)
	})

	t.Run("each member is adjusted from their own rating", func(t *testing.T) {
		newWinners, newLosers := elo.TeamUpdate([2]int{1600, 1400}, [2]int{1500, 1500}, elo.DefaultK)
		// Both winners face the same opposing average, so they gain the same
		// amount relative to their own rating.
		assert.Equal(t, newWinners[0]-1600, newWinners[1]-1400)
		for i, r := range [2]int{1600, 1400} {
			assert.Greater(t, newWinners[i], r)
		}
		for i, r := range [2]int{1500, 1500} {
			assert.Less(t, newLosers[i], r)
		}
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
