package service

import (
	"context"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

// IBotService интерфейс для бизнес-логики бота
type IBotService interface {
	GetOrCreateUser(ctx context.Context, tgUser *domain.TelegramUser, chat *domain.Chat) (*domain.User, error)
	HandleCommand(ctx context.Context, user *domain.User, command string, updateID int64) error
	HandleText(ctx context.Context, user *domain.User, text string, updateID int64) error
	HandleContact(ctx context.Context, user *domain.User, contact *domain.Contact) error
	HandleCallback(ctx context.Context, user *domain.User, callbackID, data string) error
	HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error
	HandleSuccessfulPayment(ctx context.Context, user *domain.User, payment *domain.SuccessfulPayment) error
}
