package forecast

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

// GetOrCreateUser возвращает запись леджера для входящего события,
// создавая её при первом контакте. Username обновляется на каждом событии.
func (s *Service) GetOrCreateUser(ctx context.Context, tgUser *domain.TelegramUser, chat *domain.Chat) (*domain.User, error) {
	if tgUser == nil || chat == nil {
		return nil, fmt.Errorf("telegram user or chat is missing")
	}

	user, err := s.UserRepo.Upsert(ctx, tgUser.ID, chat.ID, func(u *domain.User) error {
		if tgUser.Username != nil && *tgUser.Username != "" {
			u.Username = tgUser.Username
		}
		return nil
	})
	if err != nil {
		s.Log.Error("failed to get or create user",
			"error", err,
			"telegram_user_id", tgUser.ID,
		)
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	return user, nil
}
