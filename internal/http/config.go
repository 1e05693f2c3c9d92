package http

import (
	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the catalog UI router.
type RouterConfig struct {
	Store    *bookstore.Store
	Sessions *sessions.Manager
	PageSize int

	// CSRF protection is enabled when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Health checks the session database; nil reports "not configured"
	SessionDB Pinger

	Version string
}

// BackendRouterConfig contains the dependencies of the REST book service.
type BackendRouterConfig struct {
	Repository BookRepository
	Database   Pinger
	Version    string
}
