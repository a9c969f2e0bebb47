package service

import (
	"context"
	"time"
)

// IGeneratorService интерфейс генератора текста прогноза.
// Ошибка генерации обрабатывается вызывающей стороной подстановкой fallback-текста.
type IGeneratorService interface {
	Generate(ctx context.Context, name string, birthDate time.Time, zodiac string, today time.Time) (string, error)
}
