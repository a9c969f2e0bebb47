package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZodiacSign(t *testing.T) {
	tests := []struct {
		day   int
		month int
		want  string
	}{
		{21, 3, "Овен"},
		{19, 4, "Овен"},
		{20, 4, "Телец"},
		{20, 5, "Телец"},
		{21, 5, "Близнецы"},
		{20, 6, "Близнецы"},
		{21, 6, "Рак"},
		{22, 7, "Рак"},
		{23, 7, "Лев"},
		{22, 8, "Лев"},
		{23, 8, "Дева"},
		{22, 9, "Дева"},
		{23, 9, "Весы"},
		{22, 10, "Весы"},
		{23, 10, "Скорпион"},
		{21, 11, "Скорпион"},
		{22, 11, "Стрелец"},
		{21, 12, "Стрелец"},
		{22, 12, "Козерог"},
		{19, 1, "Козерог"},
		{20, 1, "Водолей"},
		{18, 2, "Водолей"},
		{19, 2, "Рыбы"},
		{20, 3, "Рыбы"},
		// вход вне диапазона - сентинел, не ошибка
		{1, 13, ZodiacUnknown},
		{1, 0, ZodiacUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ZodiacSign(tt.day, tt.month), "day=%d month=%d", tt.day, tt.month)
	}
}
