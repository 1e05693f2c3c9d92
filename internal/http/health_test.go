package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func() error

func (f pingerFunc) Ping() error { return f() }

func serveHealth(t *testing.T, db Pinger) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", NewHealthController(db, "1.0.0").Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthController_Status(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		code, resp := serveHealth(t, pingerFunc(func() error { return nil }))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.Equal(t, "1.0.0", resp.Version)
	})

	t.Run("unreachable database", func(t *testing.T) {
		code, resp := serveHealth(t, pingerFunc(func() error { return errors.New("disk I/O error") }))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "error: disk I/O error", resp.Checks["database"])
	})

	t.Run("no database configured", func(t *testing.T) {
		code, resp := serveHealth(t, nil)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "not configured", resp.Checks["database"])
	})

	t.Run("backend router pings its database", func(t *testing.T) {
		router, _ := setupBackend(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database": "ok"`)
	})
}
