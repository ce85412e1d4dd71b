package notifier

import (
	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
// Delivery is fire-and-forget: failures are logged and never roll back the
// transition that triggered them.
type Notifier interface {
	// Match lifecycle
	SendSinglesReported(match *singles.Match, reporter, opponent *players.Player, dryRun bool) error
	SendSinglesConfirmed(match *singles.Match, winner, loser *players.Player, dryRun bool) error
	SendSinglesRejected(match *singles.Match, dryRun bool) error
	SendTeamReported(match *teams.Match, participants []players.Player, dryRun bool) error
	SendTeamFinalized(match *teams.Match, participants []players.Player, dryRun bool) error

	// Ladder queries
	SendLeaderboard(entries []ladder.Entry, dryRun bool) error
	FormatLeaderboardResponse(entries []ladder.Entry) (any, error)
}
