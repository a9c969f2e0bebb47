package forecast

import (
	"context"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

func (s *Service) HandleCommand(ctx context.Context, user *domain.User, command string, updateID int64) error {
	switch command {
	case "start":
		return s.HandleStart(ctx, user)
	case "forecast":
		return s.HandleForecastCommand(ctx, user)
	case "subscribe":
		return s.HandleSubscribe(ctx, user)
	case "help":
		return s.sendMessage(ctx, user.TelegramChatID, texts.HelpCommand)
	default:
		return s.sendMessage(ctx, user.TelegramChatID, texts.FormatUnknownCommand(command))
	}
}

// HandleStart обрабатывает команду /start.
// Повторный /start никогда не трогает триал и подписку - только приветствие.
func (s *Service) HandleStart(ctx context.Context, user *domain.User) error {
	if !user.HasProfile() {
		return s.sendMessageWithKeyboard(ctx, user.TelegramChatID, texts.StartFirstTime, contactRequestKeyboard())
	}

	return s.sendMessage(ctx, user.TelegramChatID, texts.StartReturning)
}

// HandleForecastCommand обрабатывает команду /forecast: профиль, доступ, прогноз
func (s *Service) HandleForecastCommand(ctx context.Context, user *domain.User) error {
	if !user.HasProfile() {
		return s.sendMessage(ctx, user.TelegramChatID, texts.ProfileRequired)
	}

	today := s.Now()
	if !user.IsEntitled(today) {
		return s.sendMessageWithKeyboard(ctx, user.TelegramChatID, texts.SubscriptionNeeded, s.subscribeKeyboard())
	}

	text, err := s.ForecastFor(ctx, user, today)
	if err != nil {
		s.Log.Error("failed to produce forecast",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
		)
		return err
	}

	return s.sendMessage(ctx, user.TelegramChatID, text)
}
