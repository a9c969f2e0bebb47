package telegram

import (
	"context"
)

// IClient интерфейс для клиента Telegram Bot API
type IClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard map[string]interface{}) error
	SendInvoice(ctx context.Context, chatID int64, title, description, payload, currency string, label string, amount int64) (int64, error)
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
}
