package jobs

import (
	"context"
	"time"

	"log/slog"

	forecastUsecase "github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast"
)

const dailyForecastPushName = "daily-forecast-push"

// DailyForecastPush джоба утренней рассылки прогнозов,
// каждый день в настроенное время (по умолчанию 08:00 по Мск)
type DailyForecastPush struct {
	forecastService *forecastUsecase.Service
	log             *slog.Logger
	location        *time.Location
	hour            int
	minute          int
}

func NewDailyForecastPush(
	forecastService *forecastUsecase.Service,
	hour, minute int,
	location *time.Location,
	log *slog.Logger,
) *DailyForecastPush {
	if location == nil {
		location = time.UTC
	}
	if hour < 0 || hour > 23 {
		hour = 8
	}
	if minute < 0 || minute > 59 {
		minute = 0
	}

	return &DailyForecastPush{
		forecastService: forecastService,
		log:             log,
		location:        location,
		hour:            hour,
		minute:          minute,
	}
}

func (j *DailyForecastPush) Name() string {
	return dailyForecastPushName
}

// NextRun ближайшее HH:MM в часовом поясе рассылки; если сегодняшнее
// время уже прошло - завтра
func (j *DailyForecastPush) NextRun(now time.Time) time.Time {
	local := now.In(j.location)

	next := time.Date(local.Year(), local.Month(), local.Day(), j.hour, j.minute, 0, 0, j.location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

func (j *DailyForecastPush) Run(ctx context.Context) error {
	_, err := j.forecastService.RunDailySweep(ctx, time.Now().In(j.location))
	return err
}
