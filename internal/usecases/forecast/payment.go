package forecast

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

// HandlePreCheckoutQuery подтверждает списание. Инвойсы создаём только мы сами,
// поэтому запрос всегда подтверждается; окно ответа у Telegram - 10 секунд.
func (s *Service) HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error {
	if err := s.TelegramClient.AnswerPreCheckoutQuery(ctx, query.ID, true, nil); err != nil {
		s.Log.Error("failed to answer pre-checkout query",
			"error", err,
			"query_id", query.ID,
		)
		return fmt.Errorf("failed to answer pre-checkout query: %w", err)
	}

	s.Log.Info("pre-checkout confirmed",
		"query_id", query.ID,
		"payload", query.InvoicePayload,
		"amount", query.TotalAmount,
		"currency", query.Currency,
	)
	return nil
}

// HandleSuccessfulPayment применяет завершённый платёж к записи пользователя.
// Повреждённый payload не роняет обработку - деньги уже списаны, окно
// продлевается на дефолтные 30 дней, инцидент уходит в алерты.
func (s *Service) HandleSuccessfulPayment(ctx context.Context, user *domain.User, payment *domain.SuccessfulPayment) error {
	days, ok := domain.ParsePaymentPayload(payment.InvoicePayload)
	if !ok {
		s.Log.Warn("unparseable payment payload, applying default window",
			"payload", payment.InvoicePayload,
			"days", days,
			"telegram_user_id", user.TelegramUserID,
			"charge_id", payment.TelegramPaymentChargeID,
		)
		if s.AlerterService != nil {
			msg := fmt.Sprintf("⚠️ Платёж с нечитаемым payload %q от tg_id=%d, применено %d дней",
				payment.InvoicePayload, user.TelegramUserID, days)
			if alertErr := s.AlerterService.SendAlert(ctx, msg); alertErr != nil {
				s.Log.Warn("failed to send payload alert", "error", alertErr)
			}
		}
	}

	now := s.Now()
	updated, err := s.UserRepo.Upsert(ctx, user.TelegramUserID, user.TelegramChatID, func(u *domain.User) error {
		u.ApplyPayment(days, now)
		return nil
	})
	if err != nil {
		s.Log.Error("failed to apply payment",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
			"charge_id", payment.TelegramPaymentChargeID,
		)
		return fmt.Errorf("failed to apply payment: %w", err)
	}

	s.Log.Info("payment applied",
		"telegram_user_id", updated.TelegramUserID,
		"days", days,
		"expires", updated.SubscriptionExpiry,
		"amount", payment.TotalAmount,
		"currency", payment.Currency,
		"charge_id", payment.TelegramPaymentChargeID,
	)

	return s.sendMessage(ctx, updated.TelegramChatID, texts.FormatPaymentSuccess(*updated.SubscriptionExpiry))
}
