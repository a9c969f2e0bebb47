package forecast

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

// sendMessage отправляет сообщение пользователю через Telegram Client
func (s *Service) sendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.TelegramClient.SendMessage(ctx, chatID, text); err != nil {
		s.Log.Error("failed to send message",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// sendMessageWithKeyboard отправляет сообщение с клавиатурой
func (s *Service) sendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard map[string]interface{}) error {
	if err := s.TelegramClient.SendMessageWithKeyboard(ctx, chatID, text, keyboard); err != nil {
		s.Log.Error("failed to send message with keyboard",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message with keyboard: %w", err)
	}

	return nil
}

// subscribeKeyboard inline-клавиатура с тарифами, одна кнопка в ряд
func (s *Service) subscribeKeyboard() map[string]interface{} {
	rows := make([][]map[string]interface{}, 0, len(s.Plans))
	for _, plan := range s.Plans {
		rows = append(rows, []map[string]interface{}{
			{
				"text":          plan.Label(),
				"callback_data": plan.CallbackData(),
			},
		})
	}

	return map[string]interface{}{
		"inline_keyboard": rows,
	}
}

// contactRequestKeyboard reply-клавиатура с кнопкой запроса контакта
func contactRequestKeyboard() map[string]interface{} {
	return map[string]interface{}{
		"keyboard": [][]map[string]interface{}{
			{
				{
					"text":            texts.ShareContactButton,
					"request_contact": true,
				},
			},
		},
		"resize_keyboard":   true,
		"one_time_keyboard": true,
	}
}
