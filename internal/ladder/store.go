package ladder

import (
	"database/sql"
	"fmt"
	"sync"
)

// Entry is one leaderboard row.
type Entry struct {
	PlayerID int64  `json:"player_id"`
	Handle   string `json:"handle"`
	Rating   int    `json:"rating"`
}

// Query exposes read-only aggregations over the directory and match history.
type Query interface {
	// Leaderboard returns all players descending by rating. Ties are
	// ordered by player id so the output is deterministic.
	Leaderboard() ([]Entry, error)
	// GamesPlayed counts the confirmed singles matches the player took
	// part in, on either side.
	GamesPlayed(playerID int64) (int, error)
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new ladder query service backed by the given database.
func New(db *sql.DB) Query {
	return &store{
		db: db,
	}
}

func (s *store) Leaderboard() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, handle, rating FROM players ORDER BY rating DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PlayerID, &e.Handle, &e.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) GamesPlayed(playerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM singles_matches
		WHERE state = 'CONFIRMED' AND (reporter_id = ? OR opponent_id = ?)
	`, playerID, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games played: %w", err)
	}
	return count, nil
}
