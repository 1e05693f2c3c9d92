// Package database is the persistence layer of the REST book service.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, sample catalog
//	└── books/           # Book CRUD operations
//
// The Database struct embeds books.Repository, so the service can be handed
// to the HTTP layer directly:
//
//	db, err := database.NewDatabase("./bookshelf.db")
//	books, err := db.ListBooks()
//
// Books are returned in insertion order, matching what the catalog UI expects
// from the list endpoint.
package database
