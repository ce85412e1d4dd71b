package players

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new player directory backed by the given database.
func New(db *sql.DB) Directory {
	return &store{
		db: db,
	}
}

// Register is idempotent: registering an already known external identity
// returns the existing player's id and changes nothing.
func (s *store) Register(externalID, handle string) (int64, error) {
	if strings.TrimSpace(handle) == "" {
		return 0, ErrEmptyHandle
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRow("SELECT id FROM players WHERE external_id = ?", externalID).Scan(&id)
	if err == nil {
		log.Debug("Player already registered", "externalID", externalID, "id", id)
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up player: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO players (external_id, handle, rating) VALUES (?, ?, ?)",
		externalID, normalizeHandle(handle), DefaultRating,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to register player: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new player id: %w", err)
	}

	log.Info("Registered new player", "externalID", externalID, "handle", handle, "id", id)
	return id, nil
}

// UpdateHandle keeps a renamed player searchable by their current handle.
func (s *store) UpdateHandle(externalID, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE players SET handle = ? WHERE external_id = ?",
		normalizeHandle(handle), externalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update handle: %w", err)
	}
	return nil
}

func (s *store) FindByExternalID(externalID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanPlayer(s.db.QueryRow(
		"SELECT id, external_id, handle, rating FROM players WHERE external_id = ?", externalID,
	))
}

func (s *store) FindByHandle(handle string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanPlayer(s.db.QueryRow(
		"SELECT id, external_id, handle, rating FROM players WHERE handle = ?", normalizeHandle(handle),
	))
}

func (s *store) FindByID(id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanPlayer(s.db.QueryRow(
		"SELECT id, external_id, handle, rating FROM players WHERE id = ?", id,
	))
}

// scanPlayer reads a single player row. A missing player is not an error;
// it is reported as a nil Player.
func (s *store) scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.ExternalID, &p.Handle, &p.Rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player row: %w", err)
	}
	return &p, nil
}

// normalizeHandle lower-cases handles so lookups behave like the messaging
// platform, where handles are case-insensitive.
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
