package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	"github.com/admin/tg-bots/astralab-bot/internal/ports/persistence"
	ports "github.com/admin/tg-bots/astralab-bot/internal/ports/repository"
)

const tableName = "users"

// allColumns порядок совпадает с плейсхолдерами в insert/update
const allColumns = `id, tg_id, chat_id, username, phone, name, birth_date, trial_start,
	paid, subscription_expiry, first_payment_at, last_forecast_date, cached_forecast,
	created_at, updated_at`

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

// New создаёт репозиторий пользователей поверх Postgres
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	return &Repository{
		db:  db,
		Log: log,
	}
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tg_id = $1`, allColumns, tableName)
	err := r.db.Get(ctx, &user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.Log.Error("failed to get user by telegram id",
			"error", err,
			"telegram_user_id", telegramID)
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return &user, nil
}

// Upsert читает запись под SELECT ... FOR UPDATE (или создаёт дефолтную),
// применяет mutate и сохраняет в той же транзакции. Ошибка из mutate
// откатывает транзакцию и пробрасывается вызывающему.
func (r *Repository) Upsert(ctx context.Context, telegramID, chatID int64, mutate func(*domain.User) error) (*domain.User, error) {
	var result *domain.User

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		now := time.Now().UTC()

		var user domain.User
		created := false
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE tg_id = $1 FOR UPDATE`, allColumns, tableName)
		err := tx.Get(ctx, &user, query, telegramID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to lock user row: %w", err)
			}
			created = true
			user = domain.User{
				ID:             uuid.New(),
				TelegramUserID: telegramID,
				CreatedAt:      now,
			}
		}
		user.TelegramChatID = chatID
		user.UpdatedAt = now

		if mutate != nil {
			if err := mutate(&user); err != nil {
				return err
			}
		}

		if created {
			insert := fmt.Sprintf(`INSERT INTO %s (%s)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
				tableName, allColumns)
			if err := tx.Exec(ctx, insert,
				user.ID,
				user.TelegramUserID,
				user.TelegramChatID,
				user.Username,
				user.Phone,
				user.Name,
				user.BirthDate,
				user.TrialStart,
				user.Paid,
				user.SubscriptionExpiry,
				user.FirstPaymentAt,
				user.LastForecastDate,
				user.CachedForecast,
				user.CreatedAt,
				user.UpdatedAt); err != nil {
				return fmt.Errorf("failed to insert user: %w", err)
			}
		} else {
			update := fmt.Sprintf(`UPDATE %s SET
				chat_id = $2, username = $3, phone = $4, name = $5, birth_date = $6,
				trial_start = $7, paid = $8, subscription_expiry = $9, first_payment_at = $10,
				last_forecast_date = $11, cached_forecast = $12, updated_at = $13
				WHERE tg_id = $1`, tableName)
			rowsAffected, err := tx.ExecWithResult(ctx, update,
				user.TelegramUserID,
				user.TelegramChatID,
				user.Username,
				user.Phone,
				user.Name,
				user.BirthDate,
				user.TrialStart,
				user.Paid,
				user.SubscriptionExpiry,
				user.FirstPaymentAt,
				user.LastForecastDate,
				user.CachedForecast,
				user.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			if rowsAffected == 0 {
				return fmt.Errorf("user disappeared during update: tg_id=%d", telegramID)
			}
		}

		result = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Log.Debug("user upserted",
		"telegram_user_id", telegramID,
		"user_id", result.ID)
	return result, nil
}

// All возвращает снапшот всех записей для ежедневного прохода
func (r *Repository) All(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY tg_id`, allColumns, tableName)
	if err := r.db.Select(ctx, &users, query); err != nil {
		r.Log.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *Repository) Close() error {
	return nil
}
