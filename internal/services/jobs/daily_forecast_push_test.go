package jobs

import (
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyForecastPush_NextRun(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewDailyForecastPush(nil, 8, 0, moscow, log)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "до рассылки - сегодня",
			now:  time.Date(2025, 6, 10, 6, 30, 0, 0, moscow),
			want: time.Date(2025, 6, 10, 8, 0, 0, 0, moscow),
		},
		{
			name: "ровно в момент рассылки - завтра",
			now:  time.Date(2025, 6, 10, 8, 0, 0, 0, moscow),
			want: time.Date(2025, 6, 11, 8, 0, 0, 0, moscow),
		},
		{
			name: "после рассылки - завтра",
			now:  time.Date(2025, 6, 10, 15, 45, 0, 0, moscow),
			want: time.Date(2025, 6, 11, 8, 0, 0, 0, moscow),
		},
		{
			name: "now в UTC конвертируется в пояс рассылки",
			now:  time.Date(2025, 6, 10, 4, 0, 0, 0, time.UTC), // 07:00 Мск
			want: time.Date(2025, 6, 10, 8, 0, 0, 0, moscow),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := job.NextRun(tc.now)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
		})
	}
}

func TestDailyForecastPush_InvalidTimeFallsBack(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewDailyForecastPush(nil, 99, -5, nil, log)

	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	next := job.NextRun(now)
	assert.Equal(t, 8, next.Hour())
	assert.Equal(t, 0, next.Minute())
}
