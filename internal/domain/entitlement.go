package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Правила доступа к прогнозам. Единственный источник истины и для интерактивных
// запросов, и для ежедневной рассылки - обе стороны зовут IsEntitled с одной
// и той же записью и "сегодня" в часовом поясе бота.

const DefaultMaxAgeYears = 100

// IsEntitled решает, положен ли пользователю прогноз на день today.
// Доступ есть если:
//   - триал выдан и today - тот же календарный день, что и день выдачи
//     (триал = один календарный день, не 24 часа), ИЛИ
//   - подписка оплачена и не истекла (expiry >= today по дню).
//
// Обе ветки проверяются всегда, достаточно любой.
func (u *User) IsEntitled(today time.Time) bool {
	allowed := false

	if u.TrialStart != nil && SameDay(*u.TrialStart, today) {
		allowed = true
	}

	if u.Paid && u.SubscriptionExpiry != nil {
		// День окончания считается в зоне today, как и день триала
		expiry := DateOnly(u.SubscriptionExpiry.In(today.Location()))
		if !expiry.Before(DateOnly(today)) {
			allowed = true
		}
	}

	return allowed
}

// GrantTrialIfAbsent выдаёт триал, если он не выдавался никогда раньше.
// Политика grant-once: повторный /start или повторный ввод профиля триал не возобновляет.
// Вызывается только после успешной валидации имени и даты рождения.
// Возвращает true, если триал выдан этим вызовом.
func (u *User) GrantTrialIfAbsent(now time.Time) bool {
	if u.TrialStart != nil {
		return false
	}
	ts := now
	u.TrialStart = &ts
	return true
}

// ApplyPayment применяет успешную оплату подписки на days дней.
// Новая дата окончания считается от большего из (now, текущая expiry):
// оплата всегда продлевает окно и никогда его не укорачивает.
// FirstPaymentAt выставляется только первым платежом.
func (u *User) ApplyPayment(days int, now time.Time) {
	base := now
	if u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now) {
		base = *u.SubscriptionExpiry
	}

	expiry := base.AddDate(0, 0, days)
	u.Paid = true
	u.SubscriptionExpiry = &expiry

	if u.FirstPaymentAt == nil {
		paidAt := now
		u.FirstPaymentAt = &paidAt
	}
}

// ErrInvalidBirthDate возвращается валидацией даты рождения; текст причины
// уходит пользователю как корректирующая подсказка.
type ErrInvalidBirthDate struct {
	Raw    string
	Reason string
}

func (e *ErrInvalidBirthDate) Error() string {
	return fmt.Sprintf("invalid birth date %q: %s", e.Raw, e.Reason)
}

// ValidateBirthDate парсит дату рождения из формата ДД.ММ.ГГГГ и отсекает
// заведомо невалидные значения: будущее и возраст больше maxAgeYears.
// Отказ здесь блокирует и выдачу триала, и генерацию прогноза.
func ValidateBirthDate(raw string, now time.Time, maxAgeYears int) (time.Time, error) {
	if maxAgeYears <= 0 {
		maxAgeYears = DefaultMaxAgeYears
	}

	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "expected DD.MM.YYYY"}
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "day is not a number"}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "month is not a number"}
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "year is not a number"}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "day or month out of range"}
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date нормализует 31.02 в 02.03 и т.п. - такие даты отклоняем
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "no such calendar date"}
	}

	if date.After(now) {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: "date is in the future"}
	}

	if date.Before(now.AddDate(-maxAgeYears, 0, 0)) {
		return time.Time{}, &ErrInvalidBirthDate{Raw: raw, Reason: fmt.Sprintf("older than %d years", maxAgeYears)}
	}

	return date, nil
}
