// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to TaskHub: database connection details, session cookies, OAuth
// credentials, and tuning knobs for the report engine.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: taskhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth redirects (e.g., "https://taskhub.example.com")
	BaseURL string

	// Report generation timeout; reports issue several aggregate queries
	// and get a longer budget than ordinary handlers.
	ReportTimeout time.Duration

	// How often the expired-OAuth-state sweep runs.
	StateCleanupInterval time.Duration
}
