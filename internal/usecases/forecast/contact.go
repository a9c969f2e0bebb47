package forecast

import (
	"context"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/usecases/forecast/texts"
)

// HandleContact сохраняет номер телефона из контактной кнопки.
// Принимается только собственный контакт отправителя.
func (s *Service) HandleContact(ctx context.Context, user *domain.User, contact *domain.Contact) error {
	if contact == nil || contact.UserID == nil || *contact.UserID != user.TelegramUserID {
		return s.sendMessage(ctx, user.TelegramChatID, texts.ContactNotOwn)
	}

	phone := contact.PhoneNumber
	_, err := s.UserRepo.Upsert(ctx, user.TelegramUserID, user.TelegramChatID, func(u *domain.User) error {
		u.Phone = &phone
		return nil
	})
	if err != nil {
		s.Log.Error("failed to save contact",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
		)
		return err
	}

	return s.sendMessage(ctx, user.TelegramChatID, texts.ContactSaved)
}
