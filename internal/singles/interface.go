package singles

// Workflow defines the interface for the singles match lifecycle.
type Workflow interface {
	// Report creates a match in the Pending state and returns its id.
	// No rating effect happens until the opponent confirms.
	Report(reporterID, opponentID int64, score1, score2 int) (string, error)
	// Confirm applies the rating update and marks the match Confirmed,
	// exactly once. Confirming a resolved match is an idempotent no-op.
	Confirm(matchID, confirmerExternalID string) (Outcome, error)
	// Reject deletes a pending match with no rating effect. A match that
	// was already confirmed stays untouched.
	Reject(matchID, rejecterExternalID string) (Outcome, error)
	// Get retrieves a match by id, or nil when it does not exist.
	Get(matchID string) (*Match, error)
}
