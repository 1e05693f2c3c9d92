// Package booksapi is a client for the REST book resource:
//
//	GET    /books        list all books
//	POST   /books        create a book, echoed back
//	PUT    /books/{id}   update a book, echoed back
//	DELETE /books/{id}   delete a book
package booksapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	DefaultTimeout = 10 * time.Second

	maxRetries         = 3
	initialRetryDelay  = 200 * time.Millisecond
	maxRetryDelay      = 5 * time.Second
	retryBackoffFactor = 2
)

// Client talks to the books REST resource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryDelay time.Duration
}

// NewClient creates a client for baseURL. Empty values fall back to defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		retryDelay: initialRetryDelay,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every book. Rate limits and server errors are retried with
// exponential backoff; cancellation of ctx stops immediately.
func (c *Client) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.calculateRetryDelay(attempt)):
			}
		}

		books, lastErr = c.doList(ctx)
		if lastErr == nil {
			return books, nil
		}
		if !isRetryableError(lastErr) {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doList(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, c.booksURL(), nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// Create posts book and returns the server's copy.
func (c *Client) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	var created entities.Book
	if err := c.do(ctx, http.MethodPost, c.booksURL(), book, &created); err != nil {
		return nil, fmt.Errorf("create book %s: %w", book.ID, err)
	}
	return &created, nil
}

// Update replaces book on the server and returns the server's copy.
func (c *Client) Update(ctx context.Context, book entities.Book) (*entities.Book, error) {
	var updated entities.Book
	if err := c.do(ctx, http.MethodPut, c.bookURL(book.ID), book, &updated); err != nil {
		return nil, fmt.Errorf("update book %s: %w", book.ID, err)
	}
	return &updated, nil
}

// Delete removes the book and returns the response status text.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.bookURL(id), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("delete book %s: request failed: %w", id, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("delete book %s: %w", id, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return http.StatusText(resp.StatusCode), nil
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) booksURL() string {
	return c.baseURL + "/books"
}

func (c *Client) bookURL(id string) string {
	return c.booksURL() + "/" + url.PathEscape(id)
}

func (c *Client) calculateRetryDelay(attempt int) time.Duration {
	delay := c.retryDelay
	for i := 1; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}
