// Package bookstore holds the in-memory book catalog shown to the user.
//
// Every mutation is applied locally first (optimistic) and then mirrored to
// the remote book service on a best-effort basis. A failed remote write is
// recorded in the store's error field but the local mutation is never rolled
// back, so the local list can diverge from the backend. Callers that need
// the backend to be authoritative must refetch.
//
// # Usage
//
//	store := bookstore.New(client, 10*time.Second)
//	store.FetchAll(ctx)       // hydrate once
//	store.Add(book)           // AddLocal now, AddRemote in the background
//	state := store.State()
package bookstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Fallback messages used when a remote failure carries no message of its own.
const (
	MsgFetchFailed  = "Failed to fetch books"
	MsgAddFailed    = "Failed to add book"
	MsgUpdateFailed = "Failed to update book"
	MsgDeleteFailed = "Failed to delete book"
)

// DefaultWriteTimeout bounds background remote writes started by Add, Update and Delete.
const DefaultWriteTimeout = 10 * time.Second

// ErrFetchFailed wraps any non-cancellation failure of FetchAll.
var ErrFetchFailed = errors.New("fetch books failed")

// Remote is the REST resource the store mirrors its mutations to.
type Remote interface {
	List(ctx context.Context) ([]entities.Book, error)
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
	Update(ctx context.Context, book entities.Book) (*entities.Book, error)
	Delete(ctx context.Context, id string) (string, error)
}

// ErrorKind tells which operation last set the error field.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	// ErrorFetch means the catalog could not be loaded at all.
	ErrorFetch
	// ErrorWrite means a background create, update or delete failed. The
	// optimistic change is still in Books.
	ErrorWrite
)

// State is a point-in-time copy of the store.
type State struct {
	Books     []entities.Book
	Loading   bool
	Error     string
	ErrorKind ErrorKind
}

// Store is the canonical client-side book list. It is safe for concurrent use.
type Store struct {
	remote       Remote
	writeTimeout time.Duration

	mu       sync.RWMutex
	books    []entities.Book
	loading  bool
	err      string
	errKind  ErrorKind
	hydrated bool

	inflight sync.WaitGroup
}

// New creates an empty store backed by remote. A non-positive writeTimeout
// falls back to DefaultWriteTimeout.
func New(remote Remote, writeTimeout time.Duration) *Store {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Store{
		remote:       remote,
		writeTimeout: writeTimeout,
		books:        []entities.Book{},
	}
}

// State returns a snapshot; the Books slice is a copy.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]entities.Book, len(s.books))
	copy(books, s.books)
	return State{Books: books, Loading: s.loading, Error: s.err, ErrorKind: s.errKind}
}

// Hydrated reports whether a full-list fetch has succeeded at least once.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Find returns the book with the given id.
func (s *Store) Find(id string) (entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, book := range s.books {
		if book.ID == id {
			return book, true
		}
	}
	return entities.Book{}, false
}

// ClearError dismisses the currently recorded error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.errKind = ErrorNone
	s.mu.Unlock()
}

// FetchAll replaces the book list with the remote one.
//
// A cancelled ctx is not a failure: the call returns an empty result and a
// nil error, leaving books and error as they were. Any other failure keeps
// the current books, records the message in the error field and returns an
// error wrapping ErrFetchFailed.
func (s *Store) FetchAll(ctx context.Context) ([]entities.Book, error) {
	s.mu.Lock()
	s.startFetchLocked()
	s.mu.Unlock()

	return s.fetch(ctx)
}

// Hydrate runs FetchAll unless the store is already hydrated or another
// fetch is outstanding. The check and the start of the fetch happen under
// one lock, so concurrent first visitors trigger a single remote list call.
// It reports whether this call did the fetch.
func (s *Store) Hydrate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.hydrated || s.loading {
		s.mu.Unlock()
		return false, nil
	}
	s.startFetchLocked()
	s.mu.Unlock()

	_, err := s.fetch(ctx)
	return true, err
}

func (s *Store) startFetchLocked() {
	s.loading = true
	s.err = ""
	s.errKind = ErrorNone
}

func (s *Store) fetch(ctx context.Context) ([]entities.Book, error) {
	books, err := s.remote.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		if isCancelled(ctx, err) {
			return []entities.Book{}, nil
		}
		s.err = errorMessage(err, MsgFetchFailed)
		s.errKind = ErrorFetch
		log.Printf("[STORE] fetch books: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if books == nil {
		books = []entities.Book{}
	}
	s.books = books
	s.hydrated = true

	result := make([]entities.Book, len(books))
	copy(result, books)
	return result, nil
}

// AddLocal appends book. The caller guarantees the id is unique.
func (s *Store) AddLocal(book entities.Book) {
	s.mu.Lock()
	s.books = append(s.books, book)
	s.mu.Unlock()
}

// AddRemote sends a create request for book. A failure is recorded in the
// error field and returned; the local list is left untouched.
func (s *Store) AddRemote(ctx context.Context, book entities.Book) error {
	if _, err := s.remote.Create(ctx, book); err != nil {
		s.recordWriteFailure("add book "+book.ID, err, MsgAddFailed)
		return err
	}
	return nil
}

// UpdateLocal overwrites title and author of the book with the same id.
// It is a no-op when no such book exists.
func (s *Store) UpdateLocal(book entities.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.books {
		if s.books[i].ID == book.ID {
			s.books[i].Title = book.Title
			s.books[i].Author = book.Author
		}
	}
}

// UpdateRemote sends an update request for book. Failures are recorded, not reverted.
func (s *Store) UpdateRemote(ctx context.Context, book entities.Book) error {
	if _, err := s.remote.Update(ctx, book); err != nil {
		s.recordWriteFailure("update book "+book.ID, err, MsgUpdateFailed)
		return err
	}
	return nil
}

// DeleteLocal removes the book with the given id. Unknown ids are ignored.
func (s *Store) DeleteLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.books[:0:0]
	for _, book := range s.books {
		if book.ID != id {
			kept = append(kept, book)
		}
	}
	s.books = kept
}

// DeleteRemote sends a delete request for id. Failures are recorded, not reverted.
func (s *Store) DeleteRemote(ctx context.Context, id string) error {
	if _, err := s.remote.Delete(ctx, id); err != nil {
		s.recordWriteFailure("delete book "+id, err, MsgDeleteFailed)
		return err
	}
	return nil
}

// Add applies AddLocal immediately and starts AddRemote in the background.
func (s *Store) Add(book entities.Book) {
	s.AddLocal(book)
	s.background(func(ctx context.Context) { _ = s.AddRemote(ctx, book) })
}

// Update applies UpdateLocal immediately and starts UpdateRemote in the background.
func (s *Store) Update(book entities.Book) {
	s.UpdateLocal(book)
	s.background(func(ctx context.Context) { _ = s.UpdateRemote(ctx, book) })
}

// Delete applies DeleteLocal immediately and starts DeleteRemote in the background.
func (s *Store) Delete(id string) {
	s.DeleteLocal(id)
	s.background(func(ctx context.Context) { _ = s.DeleteRemote(ctx, id) })
}

// Flush waits for background remote writes to finish or for ctx to be done.
// It returns false if ctx expired first.
func (s *Store) Flush(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// background runs a remote write detached from the caller's lifetime.
func (s *Store) background(write func(ctx context.Context)) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()
		write(ctx)
	}()
}

func (s *Store) recordWriteFailure(op string, err error, fallback string) {
	log.Printf("[STORE] %s: %v", op, err)

	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.errKind = ErrorWrite
	s.mu.Unlock()
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
