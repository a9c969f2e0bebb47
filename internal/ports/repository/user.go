package repository

import (
	"context"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

// IUserRepo леджер пользователей. Upsert - единственный путь мутации:
// мутатор применяется к текущей записи (или к свежесозданной для нового
// tg_id) под сериализацией по записи, результат персистится целиком.
// Ошибка сохранения никогда не маскируется под успех.
type IUserRepo interface {
	// GetByTelegramID возвращает запись или domain.ErrUserNotFound
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)

	// Upsert читает запись (или создаёт дефолтную с tg_id/chat_id), применяет
	// mutate и сохраняет. Ошибка из mutate отменяет сохранение и пробрасывается.
	Upsert(ctx context.Context, telegramID, chatID int64, mutate func(*domain.User) error) (*domain.User, error)

	// All снапшот всех записей для ежедневного прохода
	All(ctx context.Context) ([]*domain.User, error)

	Close() error
}
