// Package sessions keeps per-visitor view state of the catalog UI: the
// current page, the search query and one-shot flash messages.
package sessions

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
)

// Session data keys
const (
	KeyPage  = "page"
	KeyQuery = "query"
	KeyFlash = "flash"
)

// Manager wraps scs.SessionManager with view-state accessors.
type Manager struct {
	*scs.SessionManager
}

// Open opens (or creates) the SQLite session database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewManager creates a session manager persisting to sqlDB.
func NewManager(sqlDB *sql.DB, lifetime time.Duration, secureCookies bool) (*Manager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if lifetime > 0 {
		sm.Lifetime = lifetime
		sm.IdleTimeout = lifetime / 2
	}

	sm.Cookie.Name = "bookshelf_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// Page returns the visitor's current page, 1 when unset.
func (m *Manager) Page(r *http.Request) int {
	page := m.GetInt(r.Context(), KeyPage)
	if page < 1 {
		return 1
	}
	return page
}

// SetPage stores the visitor's current page.
func (m *Manager) SetPage(r *http.Request, page int) {
	m.Put(r.Context(), KeyPage, page)
}

// Query returns the visitor's search query.
func (m *Manager) Query(r *http.Request) string {
	return m.GetString(r.Context(), KeyQuery)
}

// SetQuery stores the search query. The page is left as is.
func (m *Manager) SetQuery(r *http.Request, query string) {
	m.Put(r.Context(), KeyQuery, query)
}

// Flash queues a message shown once on the next page render.
func (m *Manager) Flash(r *http.Request, message string) {
	m.Put(r.Context(), KeyFlash, message)
}

// PopFlash returns and clears the queued message.
func (m *Manager) PopFlash(r *http.Request) string {
	return m.PopString(r.Context(), KeyFlash)
}
