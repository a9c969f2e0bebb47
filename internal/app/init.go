package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	server "github.com/admin/tg-bots/astralab-bot/internal/adapters/primary/http"
	healthcheckController "github.com/admin/tg-bots/astralab-bot/internal/adapters/primary/http/controllers/healthcheck"
	telegramController "github.com/admin/tg-bots/astralab-bot/internal/adapters/primary/http/controllers/telegram"
	alerterAdapter "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/alerter"
	"github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/groq"
	fileStore "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/storage/file"
	"github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/storage/redis"
	tgAdapter "github.com/admin/tg-bots/astralab-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/cache"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/repository"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/service"
	userRepo "github.com/admin/tg-bots/astralab-bot/internal/repository/user"
	alerterService "github.com/admin/tg-bots/astralab-bot/internal/services/alerter"
	generatorService "github.com/admin/tg-bots/astralab-bot/internal/services/generator"
	jobScheduler "github.com/admin/tg-bots/astralab-bot/internal/services/jobs"
	telegramService "github.com/admin/tg-bots/astralab-bot/internal/services/telegram"
	forecastUsecase "github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB              *sqlx.DB // nil при файловом бэкенде
	UserRepo        repository.IUserRepo
	HTTPServer      *http.Server
	TelegramService *telegramService.Service
	TelegramClient  *tgAdapter.Client
	TelegramPoller  *tgAdapter.Poller
	Cache           cache.Cache
	JobScheduler    *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, users, err := a.initStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	forecastCache, err := a.initCache()
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	alerter := a.initAlerter()
	generator := a.initGenerator()

	plans, err := a.Cfg.ParsePlans()
	if err != nil {
		return nil, fmt.Errorf("failed to parse plans: %w", err)
	}

	location := a.broadcastLocation()
	tgClient := tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Log)

	forecastService := forecastUsecase.New(
		users,
		tgClient,
		generator,
		alerter,
		forecastCache,
		plans,
		location,
		a.Cfg.MaxAgeYears,
		a.Log,
	)

	tgService := telegramService.New(forecastService, a.Log)

	poller, err := a.initTelegramMode(ctx, tgClient, tgService)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram mode: %w", err)
	}

	a.registerBotCommands(ctx, tgClient)

	httpServer := a.initHTTP(db, tgService)

	scheduler := jobScheduler.NewScheduler(a.Log, alerter)
	scheduler.Register(jobScheduler.NewDailyForecastPush(
		forecastService,
		a.Cfg.Broadcast.Hour,
		a.Cfg.Broadcast.Minute,
		location,
		a.Log,
	))

	return &Dependencies{
		DB:              db,
		UserRepo:        users,
		HTTPServer:      httpServer,
		TelegramService: tgService,
		TelegramClient:  tgClient,
		TelegramPoller:  poller,
		Cache:           forecastCache,
		JobScheduler:    scheduler,
	}, nil
}

// initStorage выбирает бэкенд леджера: Postgres или JSON-файл
func (a *App) initStorage() (*sqlx.DB, repository.IUserRepo, error) {
	switch a.Cfg.Storage.Backend {
	case "postgres":
		db, err := a.initPostgres()
		if err != nil {
			return nil, nil, err
		}
		return db, userRepo.New(pg.NewDB(db), a.Log), nil
	case "file":
		store, err := fileStore.NewStore(a.Cfg.Storage.FilePath, a.Log)
		if err != nil {
			return nil, nil, err
		}
		return nil, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", a.Cfg.Storage.Backend)
	}
}

func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// initCache подключает Redis для быстрого слоя прогнозов; выключенный
// Redis - не ошибка, кэшем остаётся только мемо в записи леджера
func (a *App) initCache() (cache.Cache, error) {
	if a.Cfg.Redis == nil || !a.Cfg.Redis.Enabled {
		a.Log.Info("redis cache disabled")
		return nil, nil
	}

	client, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.Log.Info("redis connected successfully")
	return redisAdapter.NewClient(client), nil
}

// initAlerter создаёт сервис алертов; без конфигурации алерты просто выключены
func (a *App) initAlerter() service.IAlerterService {
	client := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
	if client == nil {
		a.Log.Info("alerter is not configured, alerts disabled")
		return nil
	}
	return alerterService.New(client)
}

// initGenerator создаёт сервис генерации прогнозов поверх Groq
func (a *App) initGenerator() service.IGeneratorService {
	if a.Cfg.Groq == nil {
		a.Cfg.Groq = &groq.Config{}
	}
	if !a.Cfg.Groq.IsConfigured() {
		a.Log.Warn("groq API key is not set, forecasts will use fallback text")
	}
	return generatorService.New(groq.NewClient(a.Cfg.Groq, a.Log), a.Log)
}

// initTelegramMode настраивает способ получения обновлений:
// webhook (prod) или long polling (local dev)
func (a *App) initTelegramMode(ctx context.Context, client *tgAdapter.Client, tgService *telegramService.Service) (*tgAdapter.Poller, error) {
	if a.Cfg.Telegram.IsWebhookEnabled() {
		if a.Cfg.Telegram.WebhookURL == "" {
			return nil, fmt.Errorf("webhook mode enabled but webhook URL is empty")
		}

		setCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := client.SetWebhook(setCtx, a.Cfg.Telegram.WebhookURL, a.Cfg.Telegram.WebhookSecret); err != nil {
			return nil, fmt.Errorf("failed to set webhook: %w", err)
		}
		return nil, nil
	}

	poller := tgAdapter.NewPoller(client, a.Cfg.Telegram, tgService.HandleUpdate, a.Log)
	return poller, nil
}

// registerBotCommands регистрирует меню команд, ошибка не фатальна
func (a *App) registerBotCommands(ctx context.Context, client *tgAdapter.Client) {
	cmdCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	commands := []tgAdapter.BotCommand{
		{Command: "start", Description: "Начать и заполнить профиль"},
		{Command: "forecast", Description: "Прогноз на сегодня"},
		{Command: "subscribe", Description: "Оформить подписку"},
		{Command: "help", Description: "Справка"},
	}

	if err := client.SetMyCommands(cmdCtx, commands); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}
}

func (a *App) initHTTP(db *sqlx.DB, tgService *telegramService.Service) *http.Server {
	healthCheck := healthcheckController.New(db, a.Log)
	webhook := telegramController.New(tgService, a.Cfg.Telegram.WebhookSecret, a.Log)

	return server.NewHTTPServer(a.Cfg.Server, a.Log, healthCheck, webhook)
}

// broadcastLocation часовой пояс рассылки; кривой TZ из конфига
// роняем в Europe/Moscow, затем в UTC
func (a *App) broadcastLocation() *time.Location {
	location, err := time.LoadLocation(a.Cfg.Broadcast.Timezone)
	if err != nil {
		a.Log.Warn("invalid broadcast timezone, falling back",
			"timezone", a.Cfg.Broadcast.Timezone,
			"error", err,
		)
		location, err = time.LoadLocation("Europe/Moscow")
		if err != nil {
			location = time.UTC
		}
	}
	return location
}
