package http

import (
	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/middleware"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Catalog stores
	Genres    GenreStore
	Authors   AuthorStore
	Books     BookStore
	Instances InstanceStore

	// Health checks; nil reports the database as not configured
	Database Pinger

	// Change log and its retention schedule (optional)
	Audit        *audit.Service
	AuditCleanup CleanupStatus

	// UI paths; empty means use the assets embedded in the binary
	TemplatesPath string
	StaticPath    string

	// ShowErrorDetail includes the underlying error on the error page
	ShowErrorDetail bool

	// CSRF protection is enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Sessions carry flash messages (optional)
	Sessions *middleware.SessionManager

	// Application info
	Version string
}
