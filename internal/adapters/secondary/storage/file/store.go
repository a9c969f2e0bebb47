package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/repository"
)

// Store файловое хранилище пользователей: один JSON-файл, ключ - telegram user id.
// Все операции сериализуются мьютексом, запись атомарная (tmp + rename).
type Store struct {
	mu    sync.Mutex
	path  string
	users map[int64]*domain.User // ключ - telegram_user_id
	log   *slog.Logger
}

func NewStore(path string, log *slog.Logger) (repository.IUserRepo, error) {
	s := &Store{
		path:  path,
		users: make(map[int64]*domain.User),
		log:   log,
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load user store: %w", err)
	}

	log.Info("file user store loaded",
		"path", path,
		"users", len(s.users),
	)

	return s, nil
}

// load читает файл целиком; отсутствующий файл - пустое хранилище
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if len(data) == 0 {
		return nil
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("failed to parse user store %s: %w", s.path, err)
	}

	for _, u := range users {
		s.users[u.TelegramUserID] = u
	}

	return nil
}

// save переписывает файл целиком. Временный файл + rename, чтобы
// сбой посреди записи не оставил полупустой файл.
func (s *Store) save() error {
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].TelegramUserID < users[j].TelegramUserID
	})

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace user store: %w", err)
	}

	return nil
}

// GetByTelegramID возвращает копию записи пользователя
func (s *Store) GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[telegramUserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	cp := *u
	return &cp, nil
}

// Upsert читает (или создаёт) запись, применяет mutate и сохраняет файл.
// Ошибка mutate или записи отменяет изменение - в памяти остаётся прежняя запись.
func (s *Store) Upsert(ctx context.Context, telegramUserID, chatID int64, mutate func(*domain.User) error) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	var work domain.User
	existing, ok := s.users[telegramUserID]
	if ok {
		work = *existing
	} else {
		work = domain.User{
			ID:             uuid.New(),
			TelegramUserID: telegramUserID,
			CreatedAt:      now,
		}
	}
	work.TelegramChatID = chatID
	work.UpdatedAt = now

	if mutate != nil {
		if err := mutate(&work); err != nil {
			return nil, err
		}
	}

	s.users[telegramUserID] = &work
	if err := s.save(); err != nil {
		// Откат, чтобы память не разъехалась с файлом
		if ok {
			s.users[telegramUserID] = existing
		} else {
			delete(s.users, telegramUserID)
		}
		return nil, err
	}

	cp := work
	return &cp, nil
}

// All возвращает копии всех записей
func (s *Store) All(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].TelegramUserID < users[j].TelegramUserID
	})

	return users, nil
}

func (s *Store) Close() error {
	return nil
}
