package forecast

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

// Общие фейки для тестов пакета.

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo леджер в памяти с той же семантикой Upsert, что и у боевых бэкендов
type fakeRepo struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	upsertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Upsert(ctx context.Context, telegramID, chatID int64, mutate func(*domain.User) error) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}

	var work domain.User
	if existing, ok := r.users[telegramID]; ok {
		work = *existing
	} else {
		work = domain.User{ID: uuid.New(), TelegramUserID: telegramID, CreatedAt: time.Now()}
	}
	work.TelegramChatID = chatID
	work.UpdatedAt = time.Now()

	if mutate != nil {
		if err := mutate(&work); err != nil {
			return nil, err
		}
	}
	r.users[telegramID] = &work
	cp := work
	return &cp, nil
}

func (r *fakeRepo) All(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Close() error { return nil }

type sentMessage struct {
	ChatID int64
	Text   string
}

type sentInvoice struct {
	ChatID  int64
	Payload string
	Amount  int64
}

// fakeTelegram собирает все исходящие вызовы; доставку можно ронять по chat_id
type fakeTelegram struct {
	mu          sync.Mutex
	Messages    []sentMessage
	Keyboards   []sentMessage
	Invoices    []sentInvoice
	Callbacks   []string
	PreCheckout []string
	FailChats   map[int64]bool
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{FailChats: make(map[int64]bool)}
}

func (t *fakeTelegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailChats[chatID] {
		return fmt.Errorf("delivery failed for chat %d", chatID)
	}
	t.Messages = append(t.Messages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (t *fakeTelegram) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailChats[chatID] {
		return fmt.Errorf("delivery failed for chat %d", chatID)
	}
	t.Keyboards = append(t.Keyboards, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (t *fakeTelegram) SendInvoice(ctx context.Context, chatID int64, title, description, payload, currency string, label string, amount int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Invoices = append(t.Invoices, sentInvoice{ChatID: chatID, Payload: payload, Amount: amount})
	return int64(len(t.Invoices)), nil
}

func (t *fakeTelegram) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.PreCheckout = append(t.PreCheckout, queryID)
	return nil
}

func (t *fakeTelegram) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Callbacks = append(t.Callbacks, callbackID)
	return nil
}

// fakeGenerator считает вызовы и отдаёт фиксированный текст или ошибку
type fakeGenerator struct {
	mu    sync.Mutex
	Calls int
	Text  string
	Err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, name string, birthDate time.Time, zodiac string, today time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return "", g.Err
	}
	return g.Text, nil
}

type fakeAlerter struct {
	mu     sync.Mutex
	Alerts []string
}

func (a *fakeAlerter) SendAlert(ctx context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Alerts = append(a.Alerts, message)
	return nil
}

// newTestService собирает сервис на фейках с фиксированным "сейчас"
func newTestService(repo *fakeRepo, tg *fakeTelegram, gen *fakeGenerator, fixedNow time.Time) *Service {
	s := New(repo, tg, gen, nil, nil, domain.DefaultPlans(), time.UTC, 0, noopLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func timePtr(t time.Time) *time.Time { return &t }
