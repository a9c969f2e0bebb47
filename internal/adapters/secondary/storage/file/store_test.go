package file

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStore_UpsertCreatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := NewStore(path, noopLogger())
	require.NoError(t, err)

	name := "Анна"
	user, err := store.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.Name = &name
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.TelegramUserID)
	assert.Equal(t, int64(200), user.TelegramChatID)
	assert.Equal(t, "Анна", *user.Name)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// Файл должен существовать и быть валидным JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "Анна", parsed[0]["name"])
}

func TestStore_ReloadSeesSavedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := NewStore(path, noopLogger())
	require.NoError(t, err)

	birth := time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC)
	name := "Анна"
	_, err = store.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.Name = &name
		u.BirthDate = &birth
		return nil
	})
	require.NoError(t, err)

	// Новый экземпляр поверх того же файла
	reopened, err := NewStore(path, noopLogger())
	require.NoError(t, err)

	user, err := reopened.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Анна", *user.Name)
	assert.True(t, user.BirthDate.Equal(birth))
}

func TestStore_GetByTelegramID_NotFound(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "users.json"), noopLogger())
	require.NoError(t, err)

	_, err = store.GetByTelegramID(context.Background(), 555)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_MutateErrorCancelsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := NewStore(path, noopLogger())
	require.NoError(t, err)

	wantErr := errors.New("mutate failed")
	_, err = store.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Запись не должна появиться ни в памяти, ни на диске
	_, err = store.GetByTelegramID(context.Background(), 100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_UpsertKeepsExistingFields(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "users.json"), noopLogger())
	require.NoError(t, err)

	name := "Анна"
	_, err = store.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.Name = &name
		return nil
	})
	require.NoError(t, err)

	// Второй апсерт без изменения имени
	user, err := store.Upsert(context.Background(), 100, 201, func(u *domain.User) error {
		u.Paid = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Анна", *user.Name)
	assert.True(t, user.Paid)
	assert.Equal(t, int64(201), user.TelegramChatID)
}

func TestStore_ConcurrentUpserts(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "users.json"), noopLogger())
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_, _ = store.Upsert(context.Background(), n, n, nil)
		}(int64(i + 1))
	}
	wg.Wait()

	users, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, workers)
}
