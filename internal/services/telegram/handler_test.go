package telegram

import (
	"context"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
)

type botCall struct {
	method string
	arg    string
}

type fakeBotService struct {
	calls []botCall
}

func (f *fakeBotService) GetOrCreateUser(_ context.Context, tgUser *domain.TelegramUser, chat *domain.Chat) (*domain.User, error) {
	return &domain.User{TelegramUserID: tgUser.ID, TelegramChatID: chat.ID}, nil
}

func (f *fakeBotService) HandleCommand(_ context.Context, _ *domain.User, command string, _ int64) error {
	f.calls = append(f.calls, botCall{"command", command})
	return nil
}

func (f *fakeBotService) HandleText(_ context.Context, _ *domain.User, text string, _ int64) error {
	f.calls = append(f.calls, botCall{"text", text})
	return nil
}

func (f *fakeBotService) HandleContact(_ context.Context, _ *domain.User, contact *domain.Contact) error {
	f.calls = append(f.calls, botCall{"contact", contact.PhoneNumber})
	return nil
}

func (f *fakeBotService) HandleCallback(_ context.Context, _ *domain.User, _ string, data string) error {
	f.calls = append(f.calls, botCall{"callback", data})
	return nil
}

func (f *fakeBotService) HandlePreCheckoutQuery(_ context.Context, query *domain.PreCheckoutQuery) error {
	f.calls = append(f.calls, botCall{"pre_checkout", query.InvoicePayload})
	return nil
}

func (f *fakeBotService) HandleSuccessfulPayment(_ context.Context, _ *domain.User, payment *domain.SuccessfulPayment) error {
	f.calls = append(f.calls, botCall{"payment", payment.InvoicePayload})
	return nil
}

func newTestRouter() (*Service, *fakeBotService) {
	bot := &fakeBotService{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(bot, log), bot
}

func strPtr(s string) *string { return &s }

func privateMessage(text string) *domain.Message {
	return &domain.Message{
		From: &domain.TelegramUser{ID: 42, FirstName: "Аня"},
		Chat: &domain.Chat{ID: 42, Type: "private"},
		Text: strPtr(text),
	}
}

func TestHandleUpdate_RoutesCommandAndText(t *testing.T) {
	svc, bot := newTestRouter()
	ctx := context.Background()

	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 1, Message: privateMessage("/start")}))
	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 2, Message: privateMessage("/forecast@astralab_bot сегодня")}))
	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 3, Message: privateMessage("Аня\n12.03.1990")}))

	require.Len(t, bot.calls, 3)
	assert.Equal(t, botCall{"command", "start"}, bot.calls[0])
	assert.Equal(t, botCall{"command", "forecast"}, bot.calls[1])
	assert.Equal(t, botCall{"text", "Аня\n12.03.1990"}, bot.calls[2])
}

func TestHandleUpdate_IgnoresBotsAndGroups(t *testing.T) {
	svc, bot := newTestRouter()
	ctx := context.Background()

	fromBot := privateMessage("/start")
	fromBot.From.IsBot = true
	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 1, Message: fromBot}))

	group := privateMessage("/start")
	group.Chat.Type = "supergroup"
	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 2, Message: group}))

	assert.Empty(t, bot.calls)
}

func TestHandleUpdate_RoutesPaymentFlow(t *testing.T) {
	svc, bot := newTestRouter()
	ctx := context.Background()

	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{
		UpdateID:         1,
		PreCheckoutQuery: &domain.PreCheckoutQuery{ID: "pcq-1", InvoicePayload: "sub_30d"},
	}))

	paid := privateMessage("")
	paid.Text = nil
	paid.SuccessfulPayment = &domain.SuccessfulPayment{InvoicePayload: "sub_30d", Currency: "XTR"}
	require.NoError(t, svc.HandleUpdate(ctx, &domain.Update{UpdateID: 2, Message: paid}))

	require.Len(t, bot.calls, 2)
	assert.Equal(t, botCall{"pre_checkout", "sub_30d"}, bot.calls[0])
	assert.Equal(t, botCall{"payment", "sub_30d"}, bot.calls[1])
}

func TestHandleUpdate_RoutesCallbackWithoutMessage(t *testing.T) {
	svc, bot := newTestRouter()

	err := svc.HandleUpdate(context.Background(), &domain.Update{
		UpdateID: 1,
		CallbackQuery: &domain.CallbackQuery{
			ID:   "cb-1",
			From: &domain.TelegramUser{ID: 42, FirstName: "Аня"},
			Data: strPtr("sub30"),
		},
	})

	require.NoError(t, err)
	require.Len(t, bot.calls, 1)
	assert.Equal(t, botCall{"callback", "sub30"}, bot.calls[0])
}

func TestHandleUpdate_RoutesContact(t *testing.T) {
	svc, bot := newTestRouter()

	msg := privateMessage("")
	msg.Text = nil
	msg.Contact = &domain.Contact{PhoneNumber: "+79001234567", FirstName: "Аня"}

	require.NoError(t, svc.HandleUpdate(context.Background(), &domain.Update{UpdateID: 1, Message: msg}))

	require.Len(t, bot.calls, 1)
	assert.Equal(t, botCall{"contact", "+79001234567"}, bot.calls[0])
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, "start", ParseCommand("/start"))
	assert.Equal(t, "start", ParseCommand("/START"))
	assert.Equal(t, "forecast", ParseCommand("/Forecast@astralab_bot"))
	assert.Equal(t, "subscribe", ParseCommand("/subscribe 30"))
	assert.True(t, IsCommand("/help"))
	assert.False(t, IsCommand("привет"))
}

func TestHandleUpdate_CommandCaseInsensitive(t *testing.T) {
	svc, bot := newTestRouter()

	require.NoError(t, svc.HandleUpdate(context.Background(), &domain.Update{UpdateID: 1, Message: privateMessage("/START")}))

	require.Len(t, bot.calls, 1)
	assert.Equal(t, botCall{"command", "start"}, bot.calls[0])
}
