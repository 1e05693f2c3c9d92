package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the book service database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultSessionDBPath is the default path for the UI session database
	DefaultSessionDBPath = "./bookshelf-sessions.db"
)
