package booksapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var _ bookstore.Remote = (*Client)(nil)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient(server.URL+"/", time.Second)
	client.retryDelay = time.Millisecond
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestClient_List(t *testing.T) {
	books := []entities.Book{
		{ID: "1", Title: "Book 1", Author: "Author 1"},
		{ID: "2", Title: "Book 2", Author: "Author 2"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(books)
	}))
	defer server.Close()

	got, err := newTestClient(server).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestClient_ListEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	got, err := newTestClient(server).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_ListRetriesServerErrors(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode([]entities.Book{{ID: "1", Title: "T", Author: "A"}})
	}))
	defer server.Close()

	got, err := newTestClient(server).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestClient_ListGivesUpAfterMaxRetries(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server).List(context.Background())
	require.Error(t, err)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&requests))
}

func TestClient_ListDoesNotRetryClientErrors(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	_, err := newTestClient(server).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400: bad request")
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestClient_ListCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(server).List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var book entities.Book
		require.NoError(t, json.NewDecoder(r.Body).Decode(&book))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(book)
	}))
	defer server.Close()

	book := entities.Book{ID: "abc", Title: "Dune", Author: "Frank Herbert"}
	created, err := newTestClient(server).Create(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, book, *created)
}

func TestClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/books/abc", r.URL.Path)

		var book entities.Book
		require.NoError(t, json.NewDecoder(r.Body).Decode(&book))
		_ = json.NewEncoder(w).Encode(book)
	}))
	defer server.Close()

	book := entities.Book{ID: "abc", Title: "Dune Messiah", Author: "Frank Herbert"}
	updated, err := newTestClient(server).Update(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
}

func TestClient_UpdateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server).Update(context.Background(), entities.Book{ID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/books/a b", r.URL.Path)
		assert.Equal(t, "application/json; charset=UTF-8", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	status, err := newTestClient(server).Delete(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "OK", status)
}

func TestClient_DeleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server).Delete(context.Background(), "1")
	require.Error(t, err)

	var serverErr *ServerError
	assert.True(t, errors.As(err, &serverErr))
}

func TestStoreOverClient_CreateFailureKeepsBook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := bookstore.New(newTestClient(server), time.Second)
	book := entities.Book{ID: "new", Title: "New", Author: "Author"}

	store.AddLocal(book)
	require.Error(t, store.AddRemote(context.Background(), book))

	state := store.State()
	assert.Contains(t, state.Books, book)
	assert.NotEmpty(t, state.Error)
}

func TestCalculateRetryDelay(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, initialRetryDelay, client.calculateRetryDelay(1))
	assert.Equal(t, 2*initialRetryDelay, client.calculateRetryDelay(2))
	assert.Equal(t, maxRetryDelay, client.calculateRetryDelay(20))
}
