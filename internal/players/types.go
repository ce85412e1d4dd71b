package players

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// store handles all database operations for the player directory.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ErrValidation marks caller errors. Specific validation failures wrap it so
// callers can branch with errors.Is.
var ErrValidation = errors.New("validation")

// ErrEmptyHandle is returned when a player registers without a handle.
// A handle is mandatory so other players can report matches against them.
var ErrEmptyHandle = fmt.Errorf("%w: handle must not be empty", ErrValidation)

// DefaultRating is the rating assigned to every newly registered player.
const DefaultRating = 1500

// Player is a participant in the ladder. ID is the stable internal id
// assigned at registration; ExternalID is the identity used by the messaging
// surface and may be renamed, Handle tracks the current name. The handle
// doubles as the display identity, there is no separate display name.
type Player struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Handle     string `json:"handle"`
	Rating     int    `json:"rating"`
}
