package forecast

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

func seedProfile(t *testing.T, repo *fakeRepo, tgID, chatID int64, name string, birth time.Time) *domain.User {
	t.Helper()
	user, err := repo.Upsert(context.Background(), tgID, chatID, func(u *domain.User) error {
		u.Name = &name
		u.BirthDate = &birth
		return nil
	})
	require.NoError(t, err)
	return user
}

func TestForecastFor_GeneratorCalledOncePerDay(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	gen := &fakeGenerator{Text: "сегодня звёзды на твоей стороне"}
	s := newTestService(repo, newFakeTelegram(), gen, now)

	user := seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))

	first, err := s.ForecastFor(context.Background(), user, now)
	require.NoError(t, err)
	assert.Equal(t, "сегодня звёзды на твоей стороне", first)
	assert.Equal(t, 1, gen.Calls)

	// Повторный запрос в тот же день идёт из мемо записи
	reread, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	second, err := s.ForecastFor(context.Background(), reread, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.Calls)
}

func TestForecastFor_NewDayRegenerates(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	gen := &fakeGenerator{Text: "прогноз"}
	s := newTestService(repo, newFakeTelegram(), gen, now)

	user := seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))

	_, err := s.ForecastFor(context.Background(), user, now)
	require.NoError(t, err)

	reread, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	_, err = s.ForecastFor(context.Background(), reread, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Calls)
}

func TestForecastFor_FallbackOnGeneratorError(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	gen := &fakeGenerator{Err: errors.New("api down")}
	s := newTestService(repo, newFakeTelegram(), gen, now)

	user := seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))

	text, err := s.ForecastFor(context.Background(), user, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Анна")
	assert.Contains(t, text, "Рыбы")
	assert.Contains(t, text, "Вселенная уже запустила этот сценарий")

	// Fallback кэшируется наравне с обычным текстом: повторный запрос
	// того же дня отдаёт его из мемо, без нового похода в генератор
	reread, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, reread.CachedForecast)
	assert.Equal(t, text, *reread.CachedForecast)

	gen.Err = nil
	gen.Text = "настоящий прогноз"
	again, err := s.ForecastFor(context.Background(), reread, now)
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, 1, gen.Calls)
}

func TestForecastFor_ConcurrentWinnerKept(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	gen := &fakeGenerator{Text: "поздний текст"}
	s := newTestService(repo, newFakeTelegram(), gen, now)

	user := seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))

	// Конкурент успел записать свой текст между чтением и апсертом
	_, err := repo.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.SetCachedForecast("ранний текст", now)
		return nil
	})
	require.NoError(t, err)

	// user - устаревший снапшот без мемо, генерация запустится,
	// но победить должен уже записанный текст
	text, err := s.ForecastFor(context.Background(), user, now)
	require.NoError(t, err)
	assert.Equal(t, "ранний текст", text)

	reread, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "ранний текст", *reread.CachedForecast)
}

func TestHandleText_ProfileTrialAndFirstForecast(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	tg := newFakeTelegram()
	gen := &fakeGenerator{Text: "первый прогноз"}
	s := newTestService(repo, tg, gen, now)

	user, err := repo.Upsert(context.Background(), 100, 200, nil)
	require.NoError(t, err)

	err = s.HandleText(context.Background(), user, "аня\n12.03.1990", 1)
	require.NoError(t, err)

	saved, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Аня", *saved.Name)
	require.NotNil(t, saved.TrialStart)
	assert.True(t, saved.IsEntitled(now))
	assert.False(t, saved.IsEntitled(now.AddDate(0, 0, 1)))

	require.Len(t, tg.Messages, 1)
	assert.Contains(t, tg.Messages[0].Text, "первый прогноз")
	assert.Contains(t, tg.Messages[0].Text, "/subscribe")
}

func TestHandleText_RepeatedProfileDoesNotRestoreTrial(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	tg := newFakeTelegram()
	s := newTestService(repo, tg, &fakeGenerator{Text: "x"}, now)

	// Триал выдан три дня назад и давно сгорел
	_, err := repo.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.TrialStart = timePtr(now.AddDate(0, 0, -3))
		return nil
	})
	require.NoError(t, err)

	user, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	err = s.HandleText(context.Background(), user, "Аня\n12.03.1990", 2)
	require.NoError(t, err)

	saved, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, saved.IsEntitled(now))
	// Вместо прогноза - приглашение оформить подписку
	require.Len(t, tg.Keyboards, 1)
	assert.Contains(t, tg.Keyboards[0].Text, "Подписка")
	assert.Empty(t, tg.Messages)
}

func TestHandleText_InvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		input    string
		wantHint string
	}{
		{"одна строка", "Аня", "двух строках"},
		{"мусор вместо даты", "Аня\nне-дата", "Неправильный формат"},
		{"несуществующая дата", "Аня\n31.02.1990", "Неправильный формат"},
		{"дата в будущем", "Аня\n12.03.2050", "не подходит"},
		{"слишком старая", "Аня\n01.01.1850", "не подходит"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			tg := newFakeTelegram()
			s := newTestService(repo, tg, &fakeGenerator{Text: "x"}, now)

			user, err := repo.Upsert(context.Background(), 100, 200, nil)
			require.NoError(t, err)

			err = s.HandleText(context.Background(), user, tc.input, 1)
			require.NoError(t, err)

			require.Len(t, tg.Messages, 1)
			assert.Contains(t, tg.Messages[0].Text, tc.wantHint)

			// Триал не выдан
			saved, err := repo.GetByTelegramID(context.Background(), 100)
			require.NoError(t, err)
			assert.Nil(t, saved.TrialStart)
		})
	}
}

func TestHandleForecastCommand_SubscriptionGate(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	tg := newFakeTelegram()
	s := newTestService(repo, tg, &fakeGenerator{Text: "прогноз"}, now)

	user := seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))

	// Без триала и подписки - клавиатура тарифов
	err := s.HandleForecastCommand(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, tg.Keyboards, 1)
	assert.Contains(t, tg.Keyboards[0].Text, "Подписка")

	// С активной подпиской - прогноз
	_, err = repo.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.ApplyPayment(30, now)
		return nil
	})
	require.NoError(t, err)
	paid, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)

	err = s.HandleForecastCommand(context.Background(), paid)
	require.NoError(t, err)
	require.Len(t, tg.Messages, 1)
	assert.Equal(t, "прогноз", tg.Messages[0].Text)
}

func TestEntitlement_SharedBetweenInteractiveAndSweep(t *testing.T) {
	// Один и тот же вердикт из интерактивного пути и из рассылки
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	tg := newFakeTelegram()
	s := newTestService(repo, tg, &fakeGenerator{Text: "прогноз"}, now)

	seedProfile(t, repo, 100, 200, "Анна", time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC))
	_, err := repo.Upsert(context.Background(), 100, 200, func(u *domain.User) error {
		u.TrialStart = timePtr(now)
		return nil
	})
	require.NoError(t, err)

	user, err := repo.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)

	require.NoError(t, s.HandleForecastCommand(context.Background(), user))
	stats, err := s.RunDailySweep(context.Background(), now)
	require.NoError(t, err)

	// Обе стороны сочли пользователя допущенным
	assert.Equal(t, 1, stats.Sent)
	interactive := tg.Messages[0].Text
	sweepMsg := tg.Messages[1].Text
	assert.True(t, strings.HasSuffix(sweepMsg, interactive))
}
