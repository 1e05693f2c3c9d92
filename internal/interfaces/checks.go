package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"database/sql"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookRepository implementations
var _ http.BookRepository = (*books.Repository)(nil)
var _ http.BookRepository = (*database.Database)(nil)

// Health check targets
var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*sql.DB)(nil)

// =============================================================================
// Remote Book Service
// =============================================================================

var _ bookstore.Remote = (*booksapi.Client)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

var _ scheduler.Resetter = (*database.Database)(nil)
