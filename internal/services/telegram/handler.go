package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

// HandleUpdate основной метод для обработки всех типов обновлений
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil {
		return fmt.Errorf("update is nil")
	}

	switch {
	case update.PreCheckoutQuery != nil:
		return s.handlePreCheckoutQuery(ctx, update.PreCheckoutQuery)
	case update.CallbackQuery != nil:
		return s.handleCallbackQuery(ctx, update.CallbackQuery, update.UpdateID)
	case update.Message != nil:
		return s.handleMessage(ctx, update.Message, update.UpdateID)
	default:
		s.Log.Debug("ignoring update of unsupported type", "update_id", update.UpdateID)
		return nil
	}
}

// handleMessage обрабатывает входящее сообщение - роутинг в usecase
func (s *Service) handleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if message.Chat != nil && message.Chat.Type != "private" {
		s.Log.Warn("ignoring message from group/chat",
			"update_id", updateID,
			"chat_type", message.Chat.Type,
			"chat_id", message.Chat.ID,
		)
		return nil
	}

	user, err := s.BotService.GetOrCreateUser(ctx, message.From, message.Chat)
	if err != nil {
		s.Log.Error("failed to get or create user",
			"error", err,
			"telegram_user_id", message.From.ID,
			"update_id", updateID,
		)
		return fmt.Errorf("failed to get or create user: %w", err)
	}

	switch {
	case message.SuccessfulPayment != nil:
		return s.BotService.HandleSuccessfulPayment(ctx, user, message.SuccessfulPayment)
	case message.Contact != nil:
		return s.BotService.HandleContact(ctx, user, message.Contact)
	case message.Text != nil:
		if IsCommand(*message.Text) {
			return s.BotService.HandleCommand(ctx, user, ParseCommand(*message.Text), updateID)
		}
		return s.BotService.HandleText(ctx, user, *message.Text, updateID)
	default:
		s.Log.Debug("ignoring message without text", "update_id", updateID)
		return nil
	}
}

// handleCallbackQuery обрабатывает нажатие inline-кнопки
func (s *Service) handleCallbackQuery(ctx context.Context, cq *domain.CallbackQuery, updateID int64) error {
	if cq.From == nil || cq.Data == nil {
		s.Log.Debug("ignoring callback query without from/data", "update_id", updateID)
		return nil
	}

	chat := &domain.Chat{ID: cq.From.ID, Type: "private"}
	if cq.Message != nil && cq.Message.Chat != nil {
		chat = cq.Message.Chat
	}

	user, err := s.BotService.GetOrCreateUser(ctx, cq.From, chat)
	if err != nil {
		return fmt.Errorf("failed to get or create user: %w", err)
	}

	return s.BotService.HandleCallback(ctx, user, cq.ID, *cq.Data)
}

// handlePreCheckoutQuery подтверждение перед списанием, ответ обязан уложиться в 10 секунд
func (s *Service) handlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error {
	if query.ID == "" {
		return fmt.Errorf("pre_checkout_query without id")
	}
	return s.BotService.HandlePreCheckoutQuery(ctx, query)
}

func ParseCommand(text string) string {
	text = strings.TrimPrefix(text, "/")

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	if idx := strings.Index(text, " "); idx != -1 {
		text = text[:idx]
	}

	// Клиенты Telegram не различают регистр команд
	return strings.ToLower(text)
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
