package notifier

import (
	"sync"

	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SinglesReportedCalls  []*singles.Match
	SinglesConfirmedCalls []*singles.Match
	SinglesRejectedCalls  []*singles.Match
	TeamReportedCalls     []*teams.Match
	TeamFinalizedCalls    []*teams.Match
	LeaderboardCalls      [][]ladder.Entry

	// Spies for format functions
	FormatLeaderboardResponseFunc func(entries []ladder.Entry) (any, error)
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SinglesReportedCalls = nil
	m.SinglesConfirmedCalls = nil
	m.SinglesRejectedCalls = nil
	m.TeamReportedCalls = nil
	m.TeamFinalizedCalls = nil
	m.LeaderboardCalls = nil
}

func (m *Mock) SendSinglesReported(match *singles.Match, reporter, opponent *players.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SinglesReportedCalls = append(m.SinglesReportedCalls, match)
	return nil
}

func (m *Mock) SendSinglesConfirmed(match *singles.Match, winner, loser *players.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SinglesConfirmedCalls = append(m.SinglesConfirmedCalls, match)
	return nil
}

func (m *Mock) SendSinglesRejected(match *singles.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SinglesRejectedCalls = append(m.SinglesRejectedCalls, match)
	return nil
}

func (m *Mock) SendTeamReported(match *teams.Match, participants []players.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamReportedCalls = append(m.TeamReportedCalls, match)
	return nil
}

func (m *Mock) SendTeamFinalized(match *teams.Match, participants []players.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamFinalizedCalls = append(m.TeamFinalizedCalls, match)
	return nil
}

func (m *Mock) SendLeaderboard(entries []ladder.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaderboardCalls = append(m.LeaderboardCalls, entries)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []ladder.Entry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(entries)
	}
	return "formatted_leaderboard", nil
}
