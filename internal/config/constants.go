package config

// Default paths for databases
const (
	// DefaultDatabasePath holds the web frontend's browser sessions
	DefaultDatabasePath = "./mylib-web.db"

	// DefaultProfileDir is relative to the user's home directory
	DefaultProfileDir = ".mylib"

	// DefaultProfileFileName is the CLI profile database inside DefaultProfileDir
	DefaultProfileFileName = "profile.db"

	// DefaultRuntimeConfigSource is where the deployment publishes backend coordinates
	DefaultRuntimeConfigSource = "./config.json"
)
