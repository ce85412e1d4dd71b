package teams

// Workflow defines the interface for the 2v2 match lifecycle.
type Workflow interface {
	// Report creates a match in the Pending state with all three
	// confirmation flags cleared and returns its id.
	Report(reporterID, allyID, opponent1ID, opponent2ID int64, score1, score2 int) (string, error)
	// Confirm records the confirmation of one non-reporting participant,
	// identified by external id. When the last outstanding flag is set the
	// match finalizes and all four ratings are updated in the same
	// transaction, exactly once.
	Confirm(matchID, confirmerExternalID string) (Outcome, error)
	// Reject lets any of the four participants discard a pending match
	// with no rating effect.
	Reject(matchID, rejecterExternalID string) (Outcome, error)
	// Get retrieves a match by id, or nil when it does not exist.
	Get(matchID string) (*Match, error)
}
