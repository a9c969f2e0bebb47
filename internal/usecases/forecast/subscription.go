package forecast

import (
	"context"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

const starsCurrency = "XTR"

// HandleSubscribe показывает клавиатуру тарифов
func (s *Service) HandleSubscribe(ctx context.Context, user *domain.User) error {
	return s.sendMessageWithKeyboard(ctx, user.TelegramChatID, texts.SubscribePrompt, s.subscribeKeyboard())
}

// HandleCallback обрабатывает нажатие inline-кнопки.
// Единственные известные кнопки - выбор тарифа ("sub{days}").
func (s *Service) HandleCallback(ctx context.Context, user *domain.User, callbackID, data string) error {
	days, ok := domain.ParsePlanCallback(data)
	if !ok {
		return s.TelegramClient.AnswerCallbackQuery(ctx, callbackID, texts.UnknownPlan, true)
	}

	plan, found := s.planByDays(days)
	if !found {
		s.Log.Warn("callback for unknown plan",
			"days", days,
			"telegram_user_id", user.TelegramUserID,
		)
		return s.TelegramClient.AnswerCallbackQuery(ctx, callbackID, texts.UnknownPlan, true)
	}

	// Цена в целых единицах валюты: для Stars количество звёзд как есть
	_, err := s.TelegramClient.SendInvoice(ctx,
		user.TelegramChatID,
		texts.InvoiceTitle,
		texts.InvoiceDescription,
		plan.InvoicePayload(),
		starsCurrency,
		plan.Label(),
		plan.Price,
	)
	if err != nil {
		s.Log.Error("failed to send invoice",
			"error", err,
			"days", plan.Days,
			"telegram_user_id", user.TelegramUserID,
		)
		return s.TelegramClient.AnswerCallbackQuery(ctx, callbackID, texts.InvoiceFailed, true)
	}

	return s.TelegramClient.AnswerCallbackQuery(ctx, callbackID, "", false)
}

func (s *Service) planByDays(days int) (domain.Plan, bool) {
	for _, p := range s.Plans {
		if p.Days == days {
			return p, true
		}
	}
	return domain.Plan{}, false
}
