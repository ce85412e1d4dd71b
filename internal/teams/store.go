package teams

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/depressed1503/maria-rating/internal/elo"
)

// New creates a new team match workflow backed by the given database.
func New(db *sql.DB) Workflow {
	return &store{
		db: db,
	}
}

func (s *store) Report(reporterID, allyID, opponent1ID, opponent2ID int64, score1, score2 int) (string, error) {
	ids := [4]int64{reporterID, allyID, opponent1ID, opponent2ID}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return "", ErrDuplicatePlayers
			}
		}
	}
	if score1 < 0 || score2 < 0 {
		return "", ErrNegativeScore
	}
	if score1 == score2 {
		return "", ErrDrawScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matchID := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO team_matches (id, reporter_id, ally_id, opponent1_id, opponent2_id, score1, score2, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, matchID, reporterID, allyID, opponent1ID, opponent2ID, score1, score2, StatePending, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to create team match: %w", err)
	}

	log.Info("Reported team match", "matchID", matchID, "teamA", [2]int64{reporterID, allyID},
		"teamB", [2]int64{opponent1ID, opponent2ID}, "score", fmt.Sprintf("%d:%d", score1, score2))
	return matchID, nil
}

// Confirm sets the caller's confirmation flag and finalizes the match when
// all three are set. Setting the flag, the finalization check, and the four
// rating writes run in one transaction so racing confirmers can neither skip
// finalization nor trigger it twice.
func (s *store) Confirm(matchID, confirmerExternalID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := getMatch(tx, matchID)
	if err != nil {
		return "", err
	}
	if match == nil {
		return OutcomeNotFound, nil
	}

	confirmerID, ok, err := resolveExternalID(tx, confirmerExternalID)
	if err != nil {
		return "", err
	}
	if !ok || !match.isParticipant(confirmerID) {
		return OutcomeNotParticipant, nil
	}

	if match.State == StateFinalized {
		// Ratings were already applied exactly once.
		return OutcomeAlreadyResolved, nil
	}

	switch confirmerID {
	case match.ReporterID:
		// The reporter already confirmed by reporting and holds no flag.
		return OutcomeNotParticipant, nil
	case match.AllyID:
		match.AllyConfirmed = true
	case match.Opponent1ID:
		match.Opponent1Confirmed = true
	case match.Opponent2ID:
		match.Opponent2Confirmed = true
	}

	if _, err := tx.Exec(`
		UPDATE team_matches
		SET ally_confirmed = ?, opponent1_confirmed = ?, opponent2_confirmed = ?
		WHERE id = ? AND state = ?
	`, match.AllyConfirmed, match.Opponent1Confirmed, match.Opponent2Confirmed, matchID, StatePending); err != nil {
		return "", fmt.Errorf("failed to record confirmation: %w", err)
	}

	if !match.allConfirmed() {
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit confirmation: %w", err)
		}
		log.Info("Recorded team match confirmation", "matchID", matchID, "confirmer", confirmerExternalID)
		return OutcomeWaiting, nil
	}

	if err := applyRatings(tx, match); err != nil {
		return "", err
	}

	// Conditional on the state so finalization can never happen twice.
	res, err := tx.Exec(
		"UPDATE team_matches SET state = ?, resolved_at = ? WHERE id = ? AND state = ?",
		StateFinalized, time.Now().Unix(), matchID, StatePending,
	)
	if err != nil {
		return "", fmt.Errorf("failed to finalize match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check finalization result: %w", err)
	}
	if n != 1 {
		// Someone else finalized first, our transaction rolls back.
		return OutcomeAlreadyResolved, nil
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit finalization: %w", err)
	}

	log.Info("Finalized team match", "matchID", matchID, "confirmer", confirmerExternalID)
	return OutcomeFinalized, nil
}

// Reject deletes a pending match. Unlike the singles path, rejection is
// gated on the rejecter being one of the four participants.
func (s *store) Reject(matchID, rejecterExternalID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := getMatch(tx, matchID)
	if err != nil {
		return "", err
	}
	if match == nil {
		return OutcomeNotFound, nil
	}

	rejecterID, ok, err := resolveExternalID(tx, rejecterExternalID)
	if err != nil {
		return "", err
	}
	if !ok || !match.isParticipant(rejecterID) {
		return OutcomeNotParticipant, nil
	}

	if match.State != StatePending {
		return OutcomeAlreadyResolved, nil
	}

	if _, err := tx.Exec("DELETE FROM team_matches WHERE id = ?", matchID); err != nil {
		return "", fmt.Errorf("failed to delete match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rejection: %w", err)
	}

	log.Info("Rejected team match", "matchID", matchID, "rejecter", rejecterExternalID)
	return OutcomeRemoved, nil
}

func (s *store) Get(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMatch(s.db, matchID)
}

// applyRatings updates all four players against the opposing team average.
func applyRatings(tx *sql.Tx, match *Match) error {
	winners := [2]int64{match.ReporterID, match.AllyID}
	losers := [2]int64{match.Opponent1ID, match.Opponent2ID}
	if !match.TeamAWins() {
		winners, losers = losers, winners
	}

	var winnerRatings, loserRatings [2]int
	for i, id := range winners {
		r, err := ratingOf(tx, id)
		if err != nil {
			return err
		}
		winnerRatings[i] = r
	}
	for i, id := range losers {
		r, err := ratingOf(tx, id)
		if err != nil {
			return err
		}
		loserRatings[i] = r
	}

	newWinners, newLosers := elo.TeamUpdate(winnerRatings, loserRatings, elo.DefaultK)
	for i, id := range winners {
		if err := setRating(tx, id, newWinners[i]); err != nil {
			return err
		}
	}
	for i, id := range losers {
		if err := setRating(tx, id, newLosers[i]); err != nil {
			return err
		}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getMatch(q querier, matchID string) (*Match, error) {
	var m Match
	var createdAt int64
	var resolvedAt sql.NullInt64

	err := q.QueryRow(`
		SELECT id, reporter_id, ally_id, opponent1_id, opponent2_id, score1, score2,
			ally_confirmed, opponent1_confirmed, opponent2_confirmed, state, created_at, resolved_at
		FROM team_matches WHERE id = ?
	`, matchID).Scan(
		&m.ID, &m.ReporterID, &m.AllyID, &m.Opponent1ID, &m.Opponent2ID, &m.Score1, &m.Score2,
		&m.AllyConfirmed, &m.Opponent1Confirmed, &m.Opponent2Confirmed, &m.State, &createdAt, &resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan team match: %w", err)
	}

	m.CreatedAt = time.Unix(createdAt, 0)
	if resolvedAt.Valid {
		t := time.Unix(resolvedAt.Int64, 0)
		m.ResolvedAt = &t
	}
	return &m, nil
}

func resolveExternalID(tx *sql.Tx, externalID string) (int64, bool, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM players WHERE external_id = ?", externalID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve external id %q: %w", externalID, err)
	}
	return id, true, nil
}

func ratingOf(tx *sql.Tx, playerID int64) (int, error) {
	var rating int
	if err := tx.QueryRow("SELECT rating FROM players WHERE id = ?", playerID).Scan(&rating); err != nil {
		return 0, fmt.Errorf("failed to read rating for player %d: %w", playerID, err)
	}
	return rating, nil
}

func setRating(tx *sql.Tx, playerID int64, rating int) error {
	if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", rating, playerID); err != nil {
		return fmt.Errorf("failed to update rating for player %d: %w", playerID, err)
	}
	return nil
}
