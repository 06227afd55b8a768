package config

// Default paths for databases
const (
	// DefaultDatabasePath is the fallback location of the catalog database
	// when DATABASE_PATH is not set.
	DefaultDatabasePath = "./locallibrary.db"
)

// Application environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
