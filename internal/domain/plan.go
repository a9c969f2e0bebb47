package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Plan тариф подписки: длительность окна и цена в целых единицах валюты
// (для Stars - количество звёзд, без дополнительного масштабирования)
type Plan struct {
	Days  int
	Price int64
}

// Label подпись тарифа для кнопки и позиции инвойса
func (p Plan) Label() string {
	switch p.Days {
	case 365:
		return fmt.Sprintf("Год — %d", p.Price)
	default:
		return fmt.Sprintf("%d дней — %d", p.Days, p.Price)
	}
}

// CallbackData данные inline-кнопки выбора тарифа
func (p Plan) CallbackData() string {
	return fmt.Sprintf("sub%d", p.Days)
}

// InvoicePayload payload инвойса, по которому платёж матчится при завершении
func (p Plan) InvoicePayload() string {
	return fmt.Sprintf("%s%dd", payloadPrefix, p.Days)
}

const (
	payloadPrefix = "sub_"

	// DefaultPaymentDays применяется, когда payload завершённого платежа
	// не удалось разобрать - платёж уже прошёл, терять его нельзя
	DefaultPaymentDays = 30
)

// DefaultPlans тарифная сетка по умолчанию (переопределяется конфигом)
func DefaultPlans() []Plan {
	return []Plan{
		{Days: 7, Price: 549},
		{Days: 30, Price: 1649},
		{Days: 365, Price: 5499},
	}
}

// ParsePlanCallback извлекает число дней из callback data кнопки тарифа ("sub30" -> 30)
func ParsePlanCallback(data string) (int, bool) {
	rest, ok := strings.CutPrefix(data, "sub")
	if !ok {
		return 0, false
	}
	days, err := strconv.Atoi(rest)
	if err != nil || days <= 0 {
		return 0, false
	}
	return days, true
}

// ParsePaymentPayload разбирает payload завершённого платежа формата "sub_{days}d".
// Повреждённый payload не роняет обработку: возвращается DefaultPaymentDays и ok=false.
func ParsePaymentPayload(payload string) (days int, ok bool) {
	rest, found := strings.CutPrefix(payload, payloadPrefix)
	if !found {
		return DefaultPaymentDays, false
	}
	rest, found = strings.CutSuffix(rest, "d")
	if !found {
		return DefaultPaymentDays, false
	}
	days, err := strconv.Atoi(rest)
	if err != nil || days <= 0 {
		return DefaultPaymentDays, false
	}
	return days, true
}
