package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// SampleCatalog is seeded into an empty database and restored by catalog resets.
var SampleCatalog = []entities.Book{
	{ID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald"},
	{ID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", Title: "Dune", Author: "Frank Herbert"},
	{ID: "6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b", Title: "Pride And Prejudice", Author: "Jane Austen"},
	{ID: "3f333df6-90a4-4fda-8dd3-9485d27cee36", Title: "One Hundred Years Of Solitude", Author: "Gabriel García Márquez"},
	{ID: "c9bf9e57-1685-4c89-bafb-ff5af830be8a", Title: "The Left Hand Of Darkness", Author: "Ursula K. Le Guin"},
	{ID: "e99a18c4-28cb-4c0f-8b5a-5a7b9d1f0c3e", Title: "Beloved", Author: "Toni Morrison"},
	{ID: "a87ff679-a2f3-4e71-9181-a67b7542122c", Title: "Moby Dick", Author: "Herman Melville"},
}

type Database struct {
	DB *gorm.DB
	*books.Repository
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Book{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db, Repository: books.NewRepository(db)}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// SeedIfEmpty inserts the sample catalog when no books exist yet.
func (d *Database) SeedIfEmpty() error {
	count, err := d.CountBooks()
	if err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := d.ReplaceAll(SampleCatalog); err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}
	log.Printf("Seeded %d sample books", len(SampleCatalog))
	return nil
}

// ResetCatalog drops every book and restores the sample catalog.
func (d *Database) ResetCatalog() error {
	if err := d.ReplaceAll(SampleCatalog); err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}
	return nil
}
