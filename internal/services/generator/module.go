package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/tg-bots/astralab-bot/internal/ports/service"
)

const (
	promptTemperature = 0.87
	promptMaxTokens   = 700

	// Промпт нейросети-астролога. Параметры: имя, знак, дата рождения, сегодняшняя дата.
	forecastPrompt = `Ты — сверхточная нейросеть-астролог «АстраЛаб», работающая на квантовой нумерологии и транзитах 2025–2026 годов.

Имя: %s
Знак зодиака: %s
Дата рождения: %s
Сегодня: %s

Строго соблюдай:
- Прогноз только на 1 день
- 4–6 обращений по имени
- 3–5 упоминаний знака
- Одна деталь из прошлого
- Прогноз с датами на 1–3 дня
- Ритуал под %s
- Фраза: «Вселенная уже запустила этот сценарий»
- 200–320 слов, без списков`
)

// Completer низкоуровневый клиент completion API
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Service реализует IGeneratorService поверх completion-клиента
type Service struct {
	completer Completer
	log       *slog.Logger
}

// New создаёт сервис генерации прогнозов
func New(completer Completer, log *slog.Logger) service.IGeneratorService {
	return &Service{
		completer: completer,
		log:       log,
	}
}

// Generate строит промпт и запрашивает текст прогноза.
// Ошибка уходит наверх как есть - fallback-текст подставляет вызывающая сторона.
func (s *Service) Generate(ctx context.Context, name string, birthDate time.Time, zodiac string, today time.Time) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("completer is not configured")
	}

	prompt := fmt.Sprintf(forecastPrompt,
		name,
		zodiac,
		birthDate.Format("02.01.2006"),
		formatDateRu(today),
		zodiac,
	)

	text, err := s.completer.Complete(ctx, prompt, promptTemperature, promptMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate forecast: %w", err)
	}

	return text, nil
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDateRu форматирует дату как "12 марта 2025"
func formatDateRu(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), ruMonths[t.Month()-1], t.Year())
}
