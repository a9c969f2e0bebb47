package telegram

import (
	"log/slog"

	"github.com/admin/tg-bots/astralab-bot/internal/ports/service"
)

// Service роутер обновлений Telegram: разбирает тип события и
// передаёт его в бизнес-логику бота
type Service struct {
	BotService service.IBotService
	Log        *slog.Logger
}

func New(botService service.IBotService, log *slog.Logger) *Service {
	return &Service{
		BotService: botService,
		Log:        log,
	}
}
