package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookRepository is the persistence the REST book service needs.
type BookRepository interface {
	ListBooks() ([]entities.Book, error)
	GetBook(id string) (*entities.Book, error)
	CreateBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(id string) error
}

// BooksController serves the /books REST resource.
type BooksController struct {
	repo BookRepository
}

func NewBooksController(repo BookRepository) *BooksController {
	return &BooksController{repo: repo}
}

// ListBooks returns every book as a JSON array in insertion order.
func (controller *BooksController) ListBooks(c *gin.Context) {
	list, err := controller.repo.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.repo.GetBook(c.Param("id"))
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook stores a book with a client-supplied id and echoes it back.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if missing := missingFields(book, true); len(missing) > 0 {
		respondValidationError(c, missing)
		return
	}

	err := controller.repo.CreateBook(&book)
	if errors.Is(err, books.ErrDuplicateID) {
		respondConflict(c, "book with id "+book.ID+" already exists")
		return
	}
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateBook replaces title and author. The id in the path wins over the body.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	book.ID = c.Param("id")
	if missing := missingFields(book, false); len(missing) > 0 {
		respondValidationError(c, missing)
		return
	}

	err := controller.repo.UpdateBook(&book)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	err := controller.repo.DeleteBook(c.Param("id"))
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func missingFields(book entities.Book, requireID bool) []string {
	var missing []string
	if requireID && strings.TrimSpace(book.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(book.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(book.Author) == "" {
		missing = append(missing, "author")
	}
	return missing
}
