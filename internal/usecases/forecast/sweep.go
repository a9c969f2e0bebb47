package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

// perUserTimeout ограничивает работу с одним пользователем, чтобы зависшая
// доставка или генерация не останавливала проход целиком
const perUserTimeout = 45 * time.Second

// SweepStats итог одного прохода рассылки
type SweepStats struct {
	Total    int // записей в леджере
	Sent     int // прогнозов доставлено
	Nudged   int // напоминаний о продлении отправлено
	Skipped  int // без профиля
	Failures int // ошибок доставки/генерации
}

// RunDailySweep один проход утренней рассылки: каждому пользователю с профилем
// либо прогноз (если доступ есть), либо напоминание о продлении. Ошибки
// по отдельным пользователям изолируются и не прерывают проход.
// Идемпотентность обеспечивается кэшем прогнозов: повторный запуск за тот же
// день рассылает те же тексты без повторной генерации.
func (s *Service) RunDailySweep(ctx context.Context, now time.Time) (SweepStats, error) {
	var stats SweepStats

	users, err := s.UserRepo.All(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list users for sweep: %w", err)
	}
	stats.Total = len(users)

	s.Log.Info("daily sweep started", "users", stats.Total)

	for _, user := range users {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		if !user.HasProfile() {
			stats.Skipped++
			continue
		}

		if err := s.sweepUser(ctx, user, now, &stats); err != nil {
			stats.Failures++
			s.Log.Warn("sweep delivery failed",
				"error", err,
				"telegram_user_id", user.TelegramUserID,
			)
		}
	}

	s.Log.Info("daily sweep finished",
		"total", stats.Total,
		"sent", stats.Sent,
		"nudged", stats.Nudged,
		"skipped", stats.Skipped,
		"failures", stats.Failures,
	)

	if s.AlerterService != nil && stats.Failures > 0 && stats.Failures*2 > stats.Total {
		msg := fmt.Sprintf("⚠️ Утренняя рассылка: %d ошибок из %d пользователей", stats.Failures, stats.Total)
		if alertErr := s.AlerterService.SendAlert(ctx, msg); alertErr != nil {
			s.Log.Warn("failed to send sweep alert", "error", alertErr)
		}
	}

	return stats, nil
}

// sweepUser обрабатывает одного пользователя под собственным таймаутом
func (s *Service) sweepUser(ctx context.Context, user *domain.User, now time.Time, stats *SweepStats) error {
	userCtx, cancel := context.WithTimeout(ctx, perUserTimeout)
	defer cancel()

	if !user.IsEntitled(now) {
		// Напоминание best-effort: истёкшим предлагаем продление
		name := ""
		if user.Name != nil {
			name = *user.Name
		}
		if err := s.sendMessageWithKeyboard(userCtx, user.TelegramChatID, texts.FormatRenewalNudge(name), s.subscribeKeyboard()); err != nil {
			return err
		}
		stats.Nudged++
		return nil
	}

	text, err := s.ForecastFor(userCtx, user, now)
	if err != nil {
		return err
	}

	if err := s.sendMessage(userCtx, user.TelegramChatID, texts.FormatMorningGreeting(*user.Name)+text); err != nil {
		return err
	}
	stats.Sent++
	return nil
}
