// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS, log
// level, timeouts); AppConfig is everything specific to CrewDeck. Values
// come from config files, CREWDECK_* environment variables, or flags,
// loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: crewdeck-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Initial manager account, created on startup when no manager exists.
	// Signup only creates member accounts, so a fresh install needs this
	// to produce its first manager.
	SeedManagerUsername string
	SeedManagerPassword string
	SeedManagerName     string
}
