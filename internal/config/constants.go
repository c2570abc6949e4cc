package config

// Default storage locations
const (
	// DefaultDatabasePath is the default path for the key/value database
	DefaultDatabasePath = "./novelshelf.db"

	// DefaultDataDir holds provider catalog snapshots
	DefaultDataDir = "./data"
)
