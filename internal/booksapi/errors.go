package booksapi

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the book does not exist on the server.
var ErrNotFound = errors.New("book not found")

// ErrRateLimited indicates the server asked the client to slow down.
var ErrRateLimited = errors.New("books API rate limit exceeded")

// ServerError represents a 5xx response from the books API.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("books API server error: HTTP %d", e.StatusCode)
}
