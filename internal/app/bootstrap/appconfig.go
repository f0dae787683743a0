// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig carries everything specific to ClubHub.
// The struct is passed to the lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session and token configuration. Browser clients ride the signed
	// session cookie; API clients use the bearer token minted at login.
	SessionKey    string
	SessionName   string
	SessionDomain string
	JWTSecret     string
	TokenTTL      time.Duration

	// Event picture storage
	UploadDir string // local directory for uploaded files
	UploadURL string // URL prefix the files are served under

	// BaseURL is this service's public URL, used for OAuth callbacks and
	// for building absolute upload URLs.
	BaseURL string

	// FrontendURL is where browsers land after the Google OAuth handshake.
	FrontendURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
}
