package singles

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// store handles database operations for the singles match workflow.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// State is the lifecycle state of a singles match. A rejected match is
// deleted rather than stored, so only these two states ever persist.
type State string

const (
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
)

// Outcome is the result of a confirm or reject transition. These are
// ordinary results, not errors; callers branch on them.
type Outcome string

const (
	// OutcomeApplied means the match was confirmed and ratings updated.
	OutcomeApplied Outcome = "APPLIED"
	// OutcomeAlreadyResolved means the match was already terminal and
	// nothing changed.
	OutcomeAlreadyResolved Outcome = "ALREADY_RESOLVED"
	// OutcomeRemoved means the pending match was deleted with no rating effect.
	OutcomeRemoved Outcome = "REMOVED"
	// OutcomeNotFound means no match exists with the given id.
	OutcomeNotFound Outcome = "NOT_FOUND"
)

// ErrValidation marks caller errors on report.
var ErrValidation = errors.New("validation")

var (
	ErrSelfPlay      = fmt.Errorf("%w: cannot play a match against yourself", ErrValidation)
	ErrNegativeScore = fmt.Errorf("%w: scores must be non-negative", ErrValidation)
	ErrDrawScore     = fmt.Errorf("%w: a match cannot end in a draw", ErrValidation)
)

// Match is a reported 1v1 result. WinnerID is derived from the higher score
// at report time.
type Match struct {
	ID         string     `json:"id"`
	ReporterID int64      `json:"reporter_id"`
	OpponentID int64      `json:"opponent_id"`
	Score1     int        `json:"score1"`
	Score2     int        `json:"score2"`
	WinnerID   int64      `json:"winner_id"`
	State      State      `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// LoserID returns the id of the losing side.
func (m *Match) LoserID() int64 {
	if m.WinnerID == m.ReporterID {
		return m.OpponentID
	}
	return m.ReporterID
}
