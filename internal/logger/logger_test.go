package logger

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_WritesToFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "todo.log")
	require.NoError(t, Init(false, path))

	Info("задача создана", zap.Int("task_id", 1))
	Warn("медленный запрос")
	Error("ошибка хранилища", errors.New("database is locked"))
	HttpRequestInfo(httptest.NewRequest("GET", "/tasks?now=x", nil), "HTTP_IN")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"task_id":1`)
	assert.Contains(t, out, "database is locked")
	assert.Contains(t, out, `"path":"/tasks"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestInit_BadPath(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	err := Init(true, filepath.Join(t.TempDir(), "missing", "dir", "todo.log"))
	assert.Error(t, err)
	assert.Same(t, prev, Logger)
}

func TestNopByDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("до инициализации")
		Error("до инициализации", nil)
	})
}
