// Package catalog prepares user input before it becomes a book record.
//
// Titles and authors are trimmed, rejected when empty and title-cased word by
// word. Validation errors are reported per field and never reach the store.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Form field names.
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
)

var requiredMessages = map[string]string{
	FieldTitle:  "You must enter the book's title",
	FieldAuthor: "You must enter the author's name",
}

// ValidationError reports a missing value for a single form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("title/author required: %s", e.Field)
}

// ValidationErrors collects field errors keyed by field name.
type ValidationErrors map[string]*ValidationError

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("title/author required: %s", strings.Join(fields, ", "))
}

// Message returns the message for field, or "" if the field is valid.
func (e ValidationErrors) Message(field string) string {
	if err, ok := e[field]; ok {
		return err.Message
	}
	return ""
}

// NormalizeName trims value and title-cases each whitespace-separated word:
// the first rune is upper-cased and the rest of the word lower-cased.
// Runs of whitespace collapse to a single space.
func NormalizeName(field, value string) (string, error) {
	value = strings.TrimSpace(replaceInvalidUTF8(value))
	if value == "" {
		msg, ok := requiredMessages[field]
		if !ok {
			msg = "You must enter the " + field
		}
		return "", &ValidationError{Field: field, Message: msg}
	}

	lower := cases.Lower(language.Und).String(value)
	upper := cases.Upper(language.Und)

	words := strings.Fields(lower)
	for i, word := range words {
		_, size := utf8.DecodeRuneInString(word)
		words[i] = upper.String(word[:size]) + word[size:]
	}
	return strings.Join(words, " "), nil
}

// replaceInvalidUTF8 turns every invalid byte into U+FFFD, the same way
// encoding/json does, so the local copy matches what the server receives.
func replaceInvalidUTF8(value string) string {
	if utf8.ValidString(value) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	// Ranging over a string yields RuneError for each invalid byte
	for _, r := range value {
		b.WriteRune(r)
	}
	return b.String()
}

// NewBook builds a book with a fresh identifier from raw form input.
func NewBook(title, author string) (entities.Book, error) {
	return EditBook(NewID(), title, author)
}

// EditBook builds a book that keeps id from raw form input.
func EditBook(id, title, author string) (entities.Book, error) {
	errs := ValidationErrors{}

	normTitle, err := NormalizeName(FieldTitle, title)
	if err != nil {
		errs[FieldTitle] = err.(*ValidationError)
	}
	normAuthor, err := NormalizeName(FieldAuthor, author)
	if err != nil {
		errs[FieldAuthor] = err.(*ValidationError)
	}
	if len(errs) > 0 {
		return entities.Book{}, errs
	}

	return entities.Book{ID: id, Title: normTitle, Author: normAuthor}, nil
}

// NewID returns a random book identifier.
func NewID() string {
	return uuid.NewString()
}
