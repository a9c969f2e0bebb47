package forecast

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

var titleCaser = cases.Title(language.Russian)

// HandleText обрабатывает свободный текст: единственный ожидаемый ввод -
// профиль в двух строках (имя, дата рождения ДД.ММ.ГГГГ).
// Успешный ввод выдаёт триал (один раз за всю жизнь записи) и первый прогноз.
func (s *Service) HandleText(ctx context.Context, user *domain.User, text string, updateID int64) error {
	lines := splitProfileLines(text)
	if len(lines) < 2 {
		return s.sendMessage(ctx, user.TelegramChatID, texts.ProfileFormatHint)
	}

	name := titleCaser.String(strings.ToLower(lines[0]))
	now := s.Now()

	birthDate, err := domain.ValidateBirthDate(lines[1], now, s.MaxAgeYears)
	if err != nil {
		var invalidErr *domain.ErrInvalidBirthDate
		if errors.As(err, &invalidErr) {
			msg := texts.BirthDateInvalid
			if invalidErr.Reason == "date is in the future" || strings.HasPrefix(invalidErr.Reason, "older than") {
				msg = texts.BirthDateImplausible
			}
			return s.sendMessage(ctx, user.TelegramChatID, msg)
		}
		return err
	}

	updated, err := s.UserRepo.Upsert(ctx, user.TelegramUserID, user.TelegramChatID, func(u *domain.User) error {
		u.Name = &name
		u.BirthDate = &birthDate
		u.GrantTrialIfAbsent(now)
		return nil
	})
	if err != nil {
		s.Log.Error("failed to save profile",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
		)
		return err
	}

	s.Log.Info("profile saved",
		"telegram_user_id", updated.TelegramUserID,
		"trial_active", updated.IsEntitled(now),
	)

	// Первый прогноз сразу после заполнения профиля, если доступ есть.
	// Повторный ввод профиля после сгоревшего триала доступ не возвращает.
	if !updated.IsEntitled(now) {
		return s.sendMessageWithKeyboard(ctx, updated.TelegramChatID, texts.SubscriptionNeeded, s.subscribeKeyboard())
	}

	forecastText, err := s.ForecastFor(ctx, updated, now)
	if err != nil {
		return err
	}

	return s.sendMessage(ctx, updated.TelegramChatID, forecastText+texts.FirstForecastFooter)
}

// splitProfileLines режет ввод на непустые строки
func splitProfileLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
