package app

import (
	"fmt"
	"strconv"
	"strings"

	server "github.com/admin/tg-bots/astralab-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/alerter"
	"github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/groq"
	"github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/storage/redis"
	"github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Log       *logger.Config         `envconfig:"LOG"`
	Server    *server.Config         `envconfig:"APISERVER"`
	Telegram  *telegram.Config       `envconfig:"TELEGRAM"`
	Postgres  *pg.Config             `envconfig:"POSTGRES"`
	Redis     *redisAdapter.Config   `envconfig:"REDIS"`
	Groq      *groq.Config           `envconfig:"GROQ"`
	Alerter   *alerterAdapter.Config `envconfig:"ALERTER"`
	Storage   StorageConfig          `envconfig:"STORAGE"`
	Broadcast BroadcastConfig        `envconfig:"BROADCAST"`
	Plans     string                 `envconfig:"PLANS"` // "7:549,30:1649,365:5499"

	MaxAgeYears int `envconfig:"MAX_AGE_YEARS" default:"100"`
}

// StorageConfig выбор бэкенда леджера пользователей
type StorageConfig struct {
	Backend  string `envconfig:"BACKEND" default:"file"` // file | postgres
	FilePath string `envconfig:"FILE_PATH" default:"data/users.json"`
}

// BroadcastConfig время утренней рассылки
type BroadcastConfig struct {
	Hour     int    `envconfig:"HOUR" default:"8"`
	Minute   int    `envconfig:"MINUTE" default:"0"`
	Timezone string `envconfig:"TIMEZONE" default:"Europe/Moscow"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParsePlans разбирает тарифную сетку из строки "дни:цена,дни:цена".
// Пустая строка даёт сетку по умолчанию, мусор - ошибку конфигурации.
func (c *Config) ParsePlans() ([]domain.Plan, error) {
	raw := strings.TrimSpace(c.Plans)
	if raw == "" {
		return domain.DefaultPlans(), nil
	}

	var plans []domain.Plan
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid plan %q: expected days:price", item)
		}
		days, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid plan days in %q", item)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid plan price in %q", item)
		}
		plans = append(plans, domain.Plan{Days: days, Price: price})
	}

	return plans, nil
}
