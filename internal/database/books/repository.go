// Package books provides database operations for the book resource.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBook("9b1deb4d-...")
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateID is returned when creating a book whose id is taken.
	ErrDuplicateID = errors.New("book id already exists")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns all books in insertion order.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at ASC, rowid ASC").Find(&books).Error
	if books == nil {
		books = []entities.Book{}
	}
	return books, err
}

// CountBooks returns the number of stored books.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// GetBook retrieves a book by id.
func (r *Repository) GetBook(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook inserts a new book. The id is supplied by the caller.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}
		return tx.Create(book).Error
	})
}

// UpdateBook overwrites title and author of an existing book.
func (r *Repository) UpdateBook(book *entities.Book) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":  book.Title,
		"author": book.Author,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBook removes a book permanently.
func (r *Repository) DeleteBook(id string) error {
	result := r.db.Where("id = ?", id).Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll atomically swaps the whole catalog for books, keeping their order.
func (r *Repository) ReplaceAll(books []entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Book{}).Error; err != nil {
			return fmt.Errorf("clear books: %w", err)
		}
		for i := range books {
			book := books[i]
			if err := tx.Create(&book).Error; err != nil {
				return fmt.Errorf("insert book %s: %w", book.ID, err)
			}
		}
		return nil
	})
}
