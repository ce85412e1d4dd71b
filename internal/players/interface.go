package players

// Directory defines the interface for the player directory.
type Directory interface {
	// Register creates a player with the default rating, or returns the
	// existing id when the external identity is already registered.
	Register(externalID, handle string) (int64, error)
	// UpdateHandle overwrites the stored handle. It is a no-op when the
	// player is unknown or the handle is empty.
	UpdateHandle(externalID, handle string) error
	FindByExternalID(externalID string) (*Player, error)
	FindByHandle(handle string) (*Player, error)
	FindByID(id int64) (*Player, error)
}
