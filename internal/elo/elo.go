package elo

import "math"

// DefaultK is the K-factor used for all ladder matches.
const DefaultK = 32

// Update computes the new ratings for the winner and loser of a match.
// Results are rounded with math.Round (half away from zero) so that a
// replay of the same match history always produces the same ladder.
// It never touches storage.
func Update(ratingWinner, ratingLoser, k int) (newWinner, newLoser int) {
	expected := expectedScore(ratingWinner, ratingLoser)
	newWinner = ratingWinner + int(math.Round(float64(k)*(1-expected)))
	newLoser = ratingLoser + int(math.Round(float64(k)*(0-(1-expected))))
	return newWinner, newLoser
}

// TeamUpdate computes the new ratings for the four players of a 2v2 match.
// Each player's expected score is computed against the opposing team's
// average rating, but the player's own rating is the operand adjusted.
func TeamUpdate(winners, losers [2]int, k int) (newWinners, newLosers [2]int) {
	winnerAvg := average(winners)
	loserAvg := average(losers)

	for i, r := range winners {
		newWinners[i], _ = Update(r, loserAvg, k)
	}
	for i, r := range losers {
		_, newLosers[i] = Update(winnerAvg, r, k)
	}
	return newWinners, newLosers
}

func expectedScore(ratingA, ratingB int) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

func average(ratings [2]int) int {
	return int(math.Round(float64(ratings[0]+ratings[1]) / 2))
}
