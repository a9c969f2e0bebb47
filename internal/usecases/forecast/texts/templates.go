package texts

import (
	"fmt"
	"time"
)

const (
	// StartFirstTime приветствие для пользователя без профиля
	StartFirstTime = "Привет! Я — ИИ-астролог АстраЛаб.\n\n" +
		"Можешь поделиться номером телефона кнопкой ниже, затем отправь в двух строках:\n" +
		"Имя\nДД.ММ.ГГГГ"

	// StartReturning приветствие для пользователя с заполненным профилем
	StartReturning = "С возвращением! Твой профиль на месте.\n\n" +
		"/forecast — прогноз на сегодня\n" +
		"/subscribe — подписка"

	// HelpCommand справка по командам
	HelpCommand = "Я присылаю персональный астропрогноз каждое утро.\n\n" +
		"/start — начать и заполнить профиль\n" +
		"/forecast — прогноз на сегодня\n" +
		"/subscribe — оформить подписку\n" +
		"/help — эта справка"

	// ProfileRequired профиль не заполнен, прогноз невозможен
	ProfileRequired = "Сначала отправь имя и дату рождения в двух строках (или нажми /start)."

	// ProfileFormatHint подсказка при неполном вводе профиля
	ProfileFormatHint = "Пиши имя и дату рождения в двух строках.\nПример:\nАня\n12.03.1990"

	// BirthDateInvalid неправильный формат или несуществующая дата
	BirthDateInvalid = "Неправильный формат даты. Используй ДД.ММ.ГГГГ (например 12.03.1990)."

	// BirthDateImplausible дата формально валидна, но невозможна для живого человека
	BirthDateImplausible = "Такая дата рождения не подходит: она в будущем или слишком давно. Проверь и отправь ещё раз."

	// SubscriptionNeeded приглашение оформить подписку при отсутствии доступа
	SubscriptionNeeded = "Подписка нужна для ежедневных прогнозов →"

	// SubscribePrompt заголовок клавиатуры тарифов
	SubscribePrompt = "Выбери подписку:"

	// ContactSaved номер сохранён, ждём профиль
	ContactSaved = "Номер сохранён. Теперь отправь две строки:\nИмя\nДД.ММ.ГГГГ"

	// ContactNotOwn контакт должен принадлежать отправителю
	ContactNotOwn = "Спасибо, но нужна именно ваша контактная кнопка."

	// InvoiceFailed инвойс не создался
	InvoiceFailed = "Не удалось создать инвойс. Попробуй ещё раз чуть позже."

	// UnknownPlan callback с неизвестным тарифом
	UnknownPlan = "Такого тарифа нет. Открой /subscribe ещё раз."

	// FirstForecastFooter приписка к первому бесплатному прогнозу
	FirstForecastFooter = "\n\nЧтобы получать прогнозы каждый день → /subscribe"

	// ShareContactButton текст reply-кнопки запроса контакта
	ShareContactButton = "Поделиться номером телефона"

	// InvoiceTitle заголовок инвойса подписки
	InvoiceTitle = "Подписка АстраЛаб"

	// InvoiceDescription описание инвойса подписки
	InvoiceDescription = "Персональный астропрогноз каждое утро"
)

// FormatUnknownCommand сообщение о неизвестной команде
func FormatUnknownCommand(command string) string {
	return fmt.Sprintf("Не знаю команду /%s. Посмотри /help.", command)
}

// FormatPaymentSuccess подтверждение оплаты с датой окончания подписки
func FormatPaymentSuccess(expires time.Time) string {
	return fmt.Sprintf("Оплата прошла! Подписка активна до %s. Спасибо 🌟", expires.Format("02.01.2006"))
}

// FormatMorningGreeting шапка утреннего прогноза
func FormatMorningGreeting(name string) string {
	return fmt.Sprintf("Доброе утро, %s!\n\n", name)
}

// FormatRenewalNudge напоминание об истекшей подписке в утренней рассылке
func FormatRenewalNudge(name string) string {
	if name == "" {
		name = "друг"
	}
	return fmt.Sprintf("Привет, %s! Ваша подписка истекла — хотите продлить?", name)
}

// FormatFallbackForecast запасной текст прогноза, когда генератор недоступен
func FormatFallbackForecast(name, zodiac string) string {
	return fmt.Sprintf("%s, как настоящий %s, ты входишь в мощный поток энергии. Вселенная уже запустила этот сценарий — держи фокус и помни уроки прошлого.", name, zodiac)
}
