package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPoller(t *testing.T, handler http.HandlerFunc) *Poller {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-token", noopLogger())
	client.baseURL = server.URL

	return NewPoller(client, &Config{PollingTimeout: 1}, nil, noopLogger())
}

func TestGetUpdates_ConflictReturnsSentinel(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":409,"description":"Conflict: terminated by other getUpdates request"}`))
	})

	_, err := p.getUpdates(context.Background())
	// Конфликт уходит наверх как ErrConflict, а не как пустой список:
	// цикл polling обязан выждать перед повтором
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetUpdates_ReturnsUpdates(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":42}]}`))
	})

	updates, err := p.getUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(42), updates[0].UpdateID)
}

func TestGetUpdates_APIErrorPropagates(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	})

	_, err := p.getUpdates(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Unauthorized")
}
