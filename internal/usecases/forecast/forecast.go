package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

// TTL чуть больше суток: ключ дня должен дожить до конца дня при любом часе записи
const forecastCacheTTL = 26 * time.Hour

// ForecastFor возвращает текст прогноза пользователя на день today.
// Порядок: быстрый кэш -> мемо в записи леджера -> генерация.
// Генерация идёт без удержания записи; при гонке двух генераций
// выигрывает та, что записалась первой, вторая берёт её текст.
// Отказ генератора деградирует в fallback-текст, который кэшируется
// наравне с обычным - повторные запросы того же дня генератор не дёргают.
func (s *Service) ForecastFor(ctx context.Context, user *domain.User, today time.Time) (string, error) {
	if !user.HasProfile() {
		return "", fmt.Errorf("user %d has no profile", user.TelegramUserID)
	}

	cacheKey := forecastCacheKey(user.TelegramUserID, today)

	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	if text, ok := user.CachedForecastFor(today); ok {
		s.storeFastCache(ctx, cacheKey, text)
		return text, nil
	}

	zodiac := domain.ZodiacSign(user.BirthDate.Day(), int(user.BirthDate.Month()))

	generated, genErr := s.Generator.Generate(ctx, *user.Name, *user.BirthDate, zodiac, today)
	if genErr != nil {
		s.Log.Warn("forecast generation failed, using fallback",
			"error", genErr,
			"telegram_user_id", user.TelegramUserID,
		)
		generated = texts.FormatFallbackForecast(*user.Name, zodiac)
	}

	final := generated
	if _, err := s.UserRepo.Upsert(ctx, user.TelegramUserID, user.TelegramChatID, func(u *domain.User) error {
		// Конкурентная генерация могла успеть раньше - её текст главнее
		if text, ok := u.CachedForecastFor(today); ok {
			final = text
			return nil
		}
		u.SetCachedForecast(generated, today)
		return nil
	}); err != nil {
		// Текст уже есть, пользователь его получит; без мемо просто
		// возможна повторная генерация в этот же день
		s.Log.Error("failed to memoize forecast",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
		)
		return generated, nil
	}

	s.storeFastCache(ctx, cacheKey, final)
	return final, nil
}

// storeFastCache кладёт текст в быстрый кэш, ошибки только логируются
func (s *Service) storeFastCache(ctx context.Context, key, text string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, key, text, forecastCacheTTL); err != nil {
		s.Log.Warn("failed to store forecast in cache",
			"error", err,
			"key", key,
		)
	}
}

func forecastCacheKey(telegramUserID int64, today time.Time) string {
	return fmt.Sprintf("forecast:%d:%s", telegramUserID, today.Format("2006-01-02"))
}
