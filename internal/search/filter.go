// Package search narrows a book list with a case-insensitive substring query.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Filter returns the books whose title or author contains query, ignoring
// case. An empty query returns books unchanged. Order is preserved.
func Filter(query string, books []entities.Book) []entities.Book {
	if query == "" {
		return books
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	matched := make([]entities.Book, 0, len(books))
	for _, book := range books {
		if matches(lower, book, needle) {
			matched = append(matched, book)
		}
	}
	return matched
}

// Matches reports whether a single book matches query.
func Matches(book entities.Book, query string) bool {
	lower := cases.Lower(language.Und)
	return matches(lower, book, lower.String(query))
}

func matches(lower cases.Caser, book entities.Book, needle string) bool {
	if strings.Contains(lower.String(book.Title), needle) {
		return true
	}
	return strings.Contains(lower.String(book.Author), needle)
}
