package singles

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/depressed1503/maria-rating/internal/elo"
)

// New creates a new singles match workflow backed by the given database.
func New(db *sql.DB) Workflow {
	return &store{
		db: db,
	}
}

func (s *store) Report(reporterID, opponentID int64, score1, score2 int) (string, error) {
	if reporterID == opponentID {
		return "", ErrSelfPlay
	}
	if score1 < 0 || score2 < 0 {
		return "", ErrNegativeScore
	}
	if score1 == score2 {
		return "", ErrDrawScore
	}

	winnerID := reporterID
	if score2 > score1 {
		winnerID = opponentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matchID := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO singles_matches (id, reporter_id, opponent_id, score1, score2, winner_id, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, matchID, reporterID, opponentID, score1, score2, winnerID, StatePending, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to create singles match: %w", err)
	}

	log.Info("Reported singles match", "matchID", matchID, "reporter", reporterID, "opponent", opponentID, "score", fmt.Sprintf("%d:%d", score1, score2))
	return matchID, nil
}

// Confirm transitions a pending match to Confirmed and applies the rating
// update to both players. The two rating writes and the state transition
// commit as a single transaction; a resolved match is left untouched.
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
	if match.State != StatePending {
		log.Debug("Ignoring confirm for resolved match", "matchID", matchID, "state", match.State)
		return OutcomeAlreadyResolved, nil
	}

	winnerRating, err := ratingOf(tx, match.WinnerID)
	if err != nil {
		return "", err
	}
	loserRating, err := ratingOf(tx, match.LoserID())
	if err != nil {
		return "", err
	}

	newWinner, newLoser := elo.Update(winnerRating, loserRating, elo.DefaultK)
	if err := setRating(tx, match.WinnerID, newWinner); err != nil {
		return "", err
	}
	if err := setRating(tx, match.LoserID(), newLoser); err != nil {
		return "", err
	}

	// Conditional on the state so a racing confirm can never apply twice.
	res, err := tx.Exec(
		"UPDATE singles_matches SET state = ?, resolved_at = ? WHERE id = ? AND state = ?",
		StateConfirmed, time.Now().Unix(), matchID, StatePending,
	)
	if err != nil {
		return "", fmt.Errorf("failed to confirm match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check confirmation result: %w", err)
	}
	if n != 1 {
		return OutcomeAlreadyResolved, nil
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit confirmation: %w", err)
	}

	log.Info("Confirmed singles match", "matchID", matchID, "confirmer", confirmerExternalID,
		"winner", match.WinnerID, "winnerRating", newWinner, "loser", match.LoserID(), "loserRating", newLoser)
	return OutcomeApplied, nil
}

// Reject deletes a pending match. A resolved match reports AlreadyResolved
// instead of being erased, since its ratings were already applied and are
// never reverted.
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
	if match.State != StatePending {
		return OutcomeAlreadyResolved, nil
	}

	if _, err := tx.Exec("DELETE FROM singles_matches WHERE id = ?", matchID); err != nil {
		return "", fmt.Errorf("failed to delete match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rejection: %w", err)
	}

	log.Info("Rejected singles match", "matchID", matchID, "rejecter", rejecterExternalID)
	return OutcomeRemoved, nil
}

func (s *store) Get(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMatch(s.db, matchID)
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
		SELECT id, reporter_id, opponent_id, score1, score2, winner_id, state, created_at, resolved_at
		FROM singles_matches WHERE id = ?
	`, matchID).Scan(
		&m.ID, &m.ReporterID, &m.OpponentID, &m.Score1, &m.Score2, &m.WinnerID, &m.State, &createdAt, &resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan singles match: %w", err)
	}

	m.CreatedAt = time.Unix(createdAt, 0)
	if resolvedAt.Valid {
		t := time.Unix(resolvedAt.Int64, 0)
		m.ResolvedAt = &t
	}
	return &m, nil
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
