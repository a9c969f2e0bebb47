package domain

import (
	"time"

	"github.com/google/uuid"
)

// User запись о пользователе в леджере. Ключ для внешнего мира - TelegramUserID,
// запись создаётся при первом входящем событии и никогда не удаляется.
type User struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	TelegramUserID     int64      `json:"telegram_user_id" db:"tg_id"`
	TelegramChatID     int64      `json:"telegram_chat_id" db:"chat_id"`
	Username           *string    `json:"username,omitempty" db:"username"`
	Phone              *string    `json:"phone,omitempty" db:"phone"`
	Name               *string    `json:"name,omitempty" db:"name"`
	BirthDate          *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	TrialStart         *time.Time `json:"trial_start,omitempty" db:"trial_start"`
	Paid               bool       `json:"paid" db:"paid"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty" db:"subscription_expiry"`
	FirstPaymentAt     *time.Time `json:"first_payment_at,omitempty" db:"first_payment_at"`
	LastForecastDate   *time.Time `json:"last_forecast_date,omitempty" db:"last_forecast_date"`
	CachedForecast     *string    `json:"cached_forecast,omitempty" db:"cached_forecast"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// HasProfile проверяет, что имя и дата рождения заполнены - без них ни триал, ни прогноз невозможны
func (u *User) HasProfile() bool {
	return u != nil && u.Name != nil && *u.Name != "" && u.BirthDate != nil
}

// CachedForecastFor возвращает закешированный прогноз, если он сгенерирован именно за сегодняшний день.
// Кеш валиден только когда LastForecastDate совпадает с today по календарному дню.
func (u *User) CachedForecastFor(today time.Time) (string, bool) {
	if u.LastForecastDate == nil || u.CachedForecast == nil {
		return "", false
	}
	if !SameDay(*u.LastForecastDate, today) {
		return "", false
	}
	return *u.CachedForecast, true
}

// SetCachedForecast запоминает прогноз за указанный день
func (u *User) SetCachedForecast(text string, today time.Time) {
	day := DateOnly(today)
	u.LastForecastDate = &day
	u.CachedForecast = &text
}

// SameDay сравнивает два момента по календарному дню в локации второго
// аргумента. Вторым всегда передаётся "сегодня" в часовом поясе бота:
// хранилище может вернуть тот же момент в другой зоне (Postgres отдаёт
// TIMESTAMPTZ в зоне процесса), и день обязан считаться одинаково.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly обрезает момент до полуночи календарного дня
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
