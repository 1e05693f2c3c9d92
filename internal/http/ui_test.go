package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

type fakeRemote struct {
	mu      sync.Mutex
	books   []entities.Book
	listErr   error
	createErr error
	created   []entities.Book
	updated []entities.Book
	deleted []string
}

func (f *fakeRemote) List(ctx context.Context) ([]entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entities.Book{}, f.books...), nil
}

func (f *fakeRemote) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, book)
	return &book, nil
}

func (f *fakeRemote) Update(ctx context.Context, book entities.Book) (*entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, book)
	return &book, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return "OK", nil
}

func sampleBooks(n int) []entities.Book {
	out := make([]entities.Book, n)
	for i := range out {
		out[i] = entities.Book{
			ID:     fmt.Sprintf("id-%d", i+1),
			Title:  fmt.Sprintf("Book %d", i+1),
			Author: fmt.Sprintf("Author %d", i+1),
		}
	}
	return out
}

// uiClient replays session cookies between requests like a browser would.
type uiClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (u *uiClient) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	u.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range u.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	u.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		u.cookies[cookie.Name] = cookie
	}
	return w
}

func (u *uiClient) get(target string) *httptest.ResponseRecorder {
	return u.do(http.MethodGet, target, nil)
}

func (u *uiClient) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return u.do(http.MethodPost, target, form)
}

func setupUI(t *testing.T, remote *fakeRemote, csrfSecret []byte) (*uiClient, *bookstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, err := sessions.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := sessions.NewManager(sqlDB, time.Hour, false)
	require.NoError(t, err)

	store := bookstore.New(remote, time.Second)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		store.Flush(ctx)
	})

	router := NewRouter(RouterConfig{
		Store:      store,
		Sessions:   sm,
		PageSize:   5,
		CSRFSecret: csrfSecret,
		SessionDB:  sqlDB,
		Version:    "test",
	})
	return &uiClient{t: t, router: router, cookies: map[string]*http.Cookie{}}, store
}

func flush(t *testing.T, store *bookstore.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.True(t, store.Flush(ctx))
}

func TestUIController_HomePage(t *testing.T) {
	t.Run("hydrates the store and shows the first page", func(t *testing.T) {
		client, store := setupUI(t, &fakeRemote{books: sampleBooks(7)}, nil)

		w := client.get("/")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "PAGE 1 OF 2")
		assert.Contains(t, body, "Book 5")
		assert.NotContains(t, body, "Book 6")
		assert.True(t, store.Hydrated())
	})

	t.Run("empty catalog shows one page", func(t *testing.T) {
		client, _ := setupUI(t, &fakeRemote{}, nil)

		w := client.get("/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "PAGE 1 OF 1")
		assert.Contains(t, w.Body.String(), "No books found")
	})

	t.Run("fetch failure shows the error panel", func(t *testing.T) {
		client, store := setupUI(t, &fakeRemote{listErr: errors.New("connection refused")}, nil)

		w := client.get("/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
		assert.Contains(t, w.Body.String(), `action="/error/dismiss"`)
		assert.NotContains(t, w.Body.String(), `name="q"`, "a failed fetch blocks the list")
		assert.False(t, store.Hydrated())
	})

	t.Run("does not refetch once hydrated", func(t *testing.T) {
		remote := &fakeRemote{books: sampleBooks(2)}
		client, _ := setupUI(t, remote, nil)

		client.get("/")
		remote.mu.Lock()
		remote.books = sampleBooks(4)
		remote.mu.Unlock()

		w := client.get("/")
		assert.NotContains(t, w.Body.String(), "Book 3")
	})
}

func TestUIController_Pagination(t *testing.T) {
	client, _ := setupUI(t, &fakeRemote{books: sampleBooks(20)}, nil)
	client.get("/")

	w := client.post("/page/back", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, client.get("/").Body.String(), "PAGE 1 OF 4")

	for i := 0; i < 5; i++ {
		client.post("/page/next", nil)
	}
	body := client.get("/").Body.String()
	assert.Contains(t, body, "PAGE 4 OF 4")
	assert.Contains(t, body, "Book 16")
	assert.Contains(t, body, "Book 20")
	assert.NotContains(t, body, "Book 15 by")

	client.post("/page/back", nil)
	assert.Contains(t, client.get("/").Body.String(), "PAGE 3 OF 4")
}

func TestUIController_SearchKeepsThePage(t *testing.T) {
	client, _ := setupUI(t, &fakeRemote{books: sampleBooks(7)}, nil)
	client.get("/")
	client.post("/page/next", nil)

	w := client.get("/?q=" + url.QueryEscape("BOOK 7"))

	body := w.Body.String()
	assert.Contains(t, body, "PAGE 2 OF 1")
	assert.Contains(t, body, "No books found")

	client.post("/page/back", nil)
	body = client.get("/").Body.String()
	assert.Contains(t, body, "PAGE 1 OF 1")
	assert.Contains(t, body, "Book 7")
	assert.Contains(t, body, `value="BOOK 7"`)
}

func TestUIController_AddBook(t *testing.T) {
	t.Run("normalizes and adds optimistically", func(t *testing.T) {
		remote := &fakeRemote{}
		client, store := setupUI(t, remote, nil)
		client.get("/")

		w := client.post("/add", url.Values{"title": {"  the   hobbit "}, "author": {"j.r.r. TOLKIEN"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		books := store.State().Books
		require.Len(t, books, 1)
		assert.Equal(t, "The Hobbit", books[0].Title)
		assert.Equal(t, "J.r.r. Tolkien", books[0].Author)
		assert.NotEmpty(t, books[0].ID)

		flush(t, store)
		remote.mu.Lock()
		defer remote.mu.Unlock()
		assert.Equal(t, books, remote.created)
	})

	t.Run("failed remote create keeps the book listed", func(t *testing.T) {
		remote := &fakeRemote{books: sampleBooks(3), createErr: errors.New("network error")}
		client, store := setupUI(t, remote, nil)
		client.get("/")

		w := client.post("/add", url.Values{"title": {"the great gatsby"}, "author": {"f. scott fitzgerald"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		flush(t, store)

		body := client.get("/").Body.String()
		assert.Contains(t, body, "The Great Gatsby")
		assert.Contains(t, body, "Book 1")
		assert.Contains(t, body, `name="q"`)
		assert.Contains(t, body, "PAGE 1 OF 1")
		assert.Contains(t, body, "network error")
		assert.Contains(t, body, `action="/error/dismiss"`)

		client.post("/error/dismiss", nil)
		body = client.get("/").Body.String()
		assert.NotContains(t, body, "network error")
		assert.Contains(t, body, "The Great Gatsby")
	})

	t.Run("rejects empty fields", func(t *testing.T) {
		client, store := setupUI(t, &fakeRemote{}, nil)
		client.get("/")

		w := client.post("/add", url.Values{"title": {"   "}, "author": {""}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must enter the book")
		assert.Contains(t, w.Body.String(), "must enter the author")
		assert.Empty(t, store.State().Books)
	})

	t.Run("form renders", func(t *testing.T) {
		client, _ := setupUI(t, &fakeRemote{}, nil)

		w := client.get("/add")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/add"`)
	})
}

func TestUIController_EditBook(t *testing.T) {
	t.Run("prefills and updates", func(t *testing.T) {
		remote := &fakeRemote{books: sampleBooks(3)}
		client, store := setupUI(t, remote, nil)
		client.get("/")

		form := client.get("/edit/id-2")
		assert.Equal(t, http.StatusOK, form.Code)
		assert.Contains(t, form.Body.String(), `value="Book 2"`)

		w := client.post("/edit/id-2", url.Values{"title": {"dune"}, "author": {"frank herbert"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)

		book, ok := store.Find("id-2")
		require.True(t, ok)
		assert.Equal(t, entities.Book{ID: "id-2", Title: "Dune", Author: "Frank Herbert"}, book)

		flush(t, store)
		remote.mu.Lock()
		defer remote.mu.Unlock()
		assert.Equal(t, []entities.Book{book}, remote.updated)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		client, _ := setupUI(t, &fakeRemote{books: sampleBooks(1)}, nil)
		client.get("/")

		assert.Equal(t, http.StatusNotFound, client.get("/edit/missing").Code)
		assert.Equal(t, http.StatusNotFound, client.post("/edit/missing", url.Values{"title": {"a"}, "author": {"b"}}).Code)
	})

	t.Run("validation keeps the book unchanged", func(t *testing.T) {
		client, store := setupUI(t, &fakeRemote{books: sampleBooks(1)}, nil)
		client.get("/")

		w := client.post("/edit/id-1", url.Values{"title": {""}, "author": {"someone"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		book, _ := store.Find("id-1")
		assert.Equal(t, "Book 1", book.Title)
	})
}

func TestUIController_DeleteBook(t *testing.T) {
	remote := &fakeRemote{books: sampleBooks(2)}
	client, store := setupUI(t, remote, nil)
	client.get("/")

	confirm := client.get("/delete/id-1")
	assert.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), "Are you sure you want to delete the")

	w := client.post("/delete/id-1", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	_, ok := store.Find("id-1")
	assert.False(t, ok)

	body := client.get("/").Body.String()
	assert.Contains(t, body, "Book Book 1 is deleted")
	assert.NotContains(t, client.get("/").Body.String(), "is deleted", "flash is shown once")

	flush(t, store)
	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, []string{"id-1"}, remote.deleted)

	assert.Equal(t, http.StatusNotFound, client.post("/delete/id-1", nil).Code)
}

func TestUIController_DismissError(t *testing.T) {
	remote := &fakeRemote{listErr: errors.New("backend down")}
	client, store := setupUI(t, remote, nil)
	client.get("/")
	require.NotEmpty(t, store.State().Error)

	w := client.post("/error/dismiss", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, store.State().Error)
}

func TestDeleteMessages(t *testing.T) {
	book := entities.Book{Title: "Dune"}
	assert.Equal(t, `Are you sure you want to delete the "Dune" book?`, deleteQuestion(book))
	assert.Equal(t, "Book Dune is deleted", deletedMessage(book))
}
