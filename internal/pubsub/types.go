package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventPlayerRegistered EventType = "player-registered"
	EventSinglesConfirmed EventType = "singles-confirmed"
	EventSinglesRejected  EventType = "singles-rejected"
	EventTeamFinalized    EventType = "team-finalized"
	EventTeamRejected     EventType = "team-rejected"
)

// PlayerRegisteredEvent is published when a registration creates or
// re-resolves a player.
type PlayerRegisteredEvent struct {
	PlayerID int64  `msgpack:"player_id"`
	Handle   string `msgpack:"handle"`
}

// RatingChange carries a single player's rating move for a resolved match.
type RatingChange struct {
	PlayerID  int64  `msgpack:"player_id"`
	Handle    string `msgpack:"handle"`
	OldRating int    `msgpack:"old_rating"`
	NewRating int    `msgpack:"new_rating"`
}

// MatchResolvedEvent is published whenever a match reaches a terminal state.
type MatchResolvedEvent struct {
	MatchID string         `msgpack:"match_id"`
	Changes []RatingChange `msgpack:"changes,omitempty"`
}
