// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to this
// application: the Mongo connection, session cookies, OAuth credentials,
// audit logging modes, and the payment processor.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Base URL for OAuth callbacks and links in responses
	BaseURL string // e.g. "https://donorhub.example.org"

	// Google OAuth configuration (blank disables the Google flow)
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging modes: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin bootstrap: an existing account with this email is promoted to
	// admin at startup so a fresh deployment has an operator.
	AdminEmail string

	// Payment processor configuration
	PaymentAPIURL string
	PaymentAPIKey string
}
