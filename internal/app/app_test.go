package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"todoList/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, repoType string) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Repository.Type = repoType
	cfg.Database.Path = filepath.Join(t.TempDir(), "todo.db")
	cfg.Logging.Development = false

	a := New(cfg)
	require.NoError(t, a.Init(context.Background(), filepath.Join(t.TempDir(), "todo.log")))
	t.Cleanup(a.Shutdown)
	return a
}

func TestApp_HTTPRoundTrip(t *testing.T) {
	for _, repoType := range []string{config.RepositoryInMemory, config.RepositorySQLite} {
		t.Run(repoType, func(t *testing.T) {
			h := newTestApp(t, repoType).Handler()

			body := `{"description": "Buy milk", "year": 2025, "month": 1, "day": 1, "hour": 10, "minute": 0}`
			req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks?now=2025-01-02T12:00:00Z", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var got struct {
				Rows []struct {
					ID   int      `json:"id"`
					Tags []string `json:"tags"`
				} `json:"rows"`
				Summary struct {
					Overdue int `json:"overdue"`
				} `json:"summary"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			require.Len(t, got.Rows, 1)
			assert.Equal(t, 1, got.Rows[0].ID)
			assert.Equal(t, 1, got.Summary.Overdue)

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tasks/5", nil))
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestApp_InitUnknownRepository(t *testing.T) {
	cfg := config.Default()
	cfg.Repository.Type = "mongo"

	err := New(cfg).Init(context.Background(), filepath.Join(t.TempDir(), "todo.log"))
	assert.ErrorContains(t, err, "неизвестный тип репозитория")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a := newTestApp(t, config.RepositoryInMemory)
	a.config.Server.Host = "127.0.0.1"
	a.config.Server.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("сервер не остановился")
	}
}
