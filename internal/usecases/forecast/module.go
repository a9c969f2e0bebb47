package forecast

import (
	"time"

	"log/slog"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/cache"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/repository"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/service"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/telegram"
)

// Service бизнес-логика бота ежедневных прогнозов: профиль, триал,
// подписка, выдача прогнозов и утренняя рассылка.
type Service struct {
	UserRepo       repository.IUserRepo
	TelegramClient telegram.IClient
	Generator      service.IGeneratorService
	AlerterService service.IAlerterService
	Cache          cache.Cache // опционально: быстрый слой для прогнозов дня
	Plans          []domain.Plan
	Location       *time.Location // часовой пояс бота, в нём считается "сегодня"
	MaxAgeYears    int
	Log            *slog.Logger

	now func() time.Time // подменяется в тестах
}

// New создаёт сервис бизнес-логики бота
func New(
	userRepo repository.IUserRepo,
	telegramClient telegram.IClient,
	generator service.IGeneratorService,
	alerterService service.IAlerterService,
	forecastCache cache.Cache,
	plans []domain.Plan,
	location *time.Location,
	maxAgeYears int,
	log *slog.Logger,
) *Service {
	if len(plans) == 0 {
		plans = domain.DefaultPlans()
	}
	if location == nil {
		location = time.UTC
	}
	if maxAgeYears <= 0 {
		maxAgeYears = domain.DefaultMaxAgeYears
	}
	return &Service{
		UserRepo:       userRepo,
		TelegramClient: telegramClient,
		Generator:      generator,
		AlerterService: alerterService,
		Cache:          forecastCache,
		Plans:          plans,
		Location:       location,
		MaxAgeYears:    maxAgeYears,
		Log:            log,
		now:            time.Now,
	}
}

// Now текущий момент в часовом поясе бота
func (s *Service) Now() time.Time {
	return s.now().In(s.Location)
}
