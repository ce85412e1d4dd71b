package teams

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// store handles database operations for the team match workflow.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// State is the lifecycle state of a team match. A rejected match is
// deleted rather than stored, so only these two states ever persist.
type State string

const (
	StatePending   State = "PENDING"
	StateFinalized State = "FINALIZED"
)

// Outcome is the result of a confirm or reject transition.
type Outcome string

const (
	// OutcomeWaiting means the confirmation was recorded but others are
	// still outstanding.
	OutcomeWaiting Outcome = "WAITING"
	// OutcomeFinalized means all participants have confirmed and ratings
	// were applied.
	OutcomeFinalized Outcome = "FINALIZED"
	// OutcomeRemoved means the pending match was deleted with no rating effect.
	OutcomeRemoved Outcome = "REMOVED"
	// OutcomeAlreadyResolved means the match was already terminal and
	// nothing changed.
	OutcomeAlreadyResolved Outcome = "ALREADY_RESOLVED"
	// OutcomeNotParticipant means the caller is not one of the four players.
	OutcomeNotParticipant Outcome = "NOT_PARTICIPANT"
	// OutcomeNotFound means no match exists with the given id.
	OutcomeNotFound Outcome = "NOT_FOUND"
)

// ErrValidation marks caller errors on report.
var ErrValidation = errors.New("validation")

var (
	ErrDuplicatePlayers = fmt.Errorf("%w: the four players must be distinct", ErrValidation)
	ErrNegativeScore    = fmt.Errorf("%w: scores must be non-negative", ErrValidation)
	ErrDrawScore        = fmt.Errorf("%w: a match cannot end in a draw", ErrValidation)
)

// Match is a reported 2v2 result. Team A is {reporter, ally}, Team B is
// {opponent1, opponent2}. The reporter is implicitly confirmed by reporting;
// the other three participants each carry their own confirmation flag,
// addressed by named field rather than by slot index.
type Match struct {
	ID          string `json:"id"`
	ReporterID  int64  `json:"reporter_id"`
	AllyID      int64  `json:"ally_id"`
	Opponent1ID int64  `json:"opponent1_id"`
	Opponent2ID int64  `json:"opponent2_id"`
	Score1      int    `json:"score1"`
	Score2      int    `json:"score2"`

	AllyConfirmed      bool `json:"ally_confirmed"`
	Opponent1Confirmed bool `json:"opponent1_confirmed"`
	Opponent2Confirmed bool `json:"opponent2_confirmed"`

	State      State      `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// participants lists the four player ids, team A first.
func (m *Match) participants() [4]int64 {
	return [4]int64{m.ReporterID, m.AllyID, m.Opponent1ID, m.Opponent2ID}
}

// isParticipant reports whether playerID is one of the four players.
func (m *Match) isParticipant(playerID int64) bool {
	for _, id := range m.participants() {
		if id == playerID {
			return true
		}
	}
	return false
}

// allConfirmed reports whether every non-reporting participant has confirmed.
func (m *Match) allConfirmed() bool {
	return m.AllyConfirmed && m.Opponent1Confirmed && m.Opponent2Confirmed
}

// TeamAWins reports the winning side; equal scores are rejected at creation.
func (m *Match) TeamAWins() bool {
	return m.Score1 > m.Score2
}
