package telegram

import (
	"context"
	"fmt"
)

// LabeledPrice представляет цену в invoice
type LabeledPrice struct {
	Label  string `json:"label"`  // название позиции
	Amount int64  `json:"amount"` // цена в минимальных единицах валюты (для Stars - количество звёзд)
}

// SendInvoiceRequest запрос на отправку invoice
// Документация: https://core.telegram.org/bots/api#sendinvoice
type SendInvoiceRequest struct {
	ChatID        int64          `json:"chat_id"`
	Title         string         `json:"title"`                    // название продукта
	Description   string         `json:"description"`              // описание продукта
	Payload       string         `json:"payload"`                  // payload для идентификации платежа
	ProviderToken string         `json:"provider_token,omitempty"` // для внешних провайдеров (не нужен для Stars)
	Currency      string         `json:"currency"`                 // "XTR" для Stars
	Prices        []LabeledPrice `json:"prices"`
}

// SendInvoiceResult результат отправки invoice
type SendInvoiceResult struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// SendInvoiceResponse ответ от Telegram API на sendInvoice
type SendInvoiceResponse struct {
	APIResponse
	Result SendInvoiceResult `json:"result"`
}

// SendInvoice отправляет invoice пользователю, возвращает message_id инвойса.
// Цена передаётся в целых единицах валюты как есть, без масштабирования.
func (c *Client) SendInvoice(ctx context.Context, chatID int64, title, description, payload, currency string, label string, amount int64) (int64, error) {
	req := SendInvoiceRequest{
		ChatID:      chatID,
		Title:       title,
		Description: description,
		Payload:     payload,
		Currency:    currency,
		Prices: []LabeledPrice{
			{Label: label, Amount: amount},
		},
	}

	var apiResp SendInvoiceResponse
	if err := c.postJSON(ctx, "/sendInvoice", req, &apiResp); err != nil {
		c.log.Error("failed to send invoice",
			"error", err,
			"chat_id", chatID,
			"payload", payload,
		)
		return 0, fmt.Errorf("telegram sendInvoice failed [chat_id=%d]: %w", chatID, err)
	}

	if !apiResp.OK {
		c.log.Debug("telegram sendInvoice API error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
			"chat_id", chatID,
		)
		return 0, fmt.Errorf("telegram API error [code=%d, chat_id=%d]: %s",
			apiResp.ErrorCode, chatID, apiResp.Description)
	}

	c.log.Debug("invoice sent successfully",
		"chat_id", chatID,
		"message_id", apiResp.Result.MessageID,
		"payload", payload,
	)

	return apiResp.Result.MessageID, nil
}

// AnswerPreCheckoutQueryRequest запрос на ответ pre_checkout_query
type AnswerPreCheckoutQueryRequest struct {
	PreCheckoutQueryID string  `json:"pre_checkout_query_id"`
	OK                 bool    `json:"ok"`                      // true - подтвердить, false - отклонить
	ErrorMessage       *string `json:"error_message,omitempty"` // сообщение об ошибке (если ok=false)
}

// AnswerPreCheckoutQuery отвечает на pre_checkout_query (подтверждает или отклоняет платёж)
// Документация: https://core.telegram.org/bots/api#answerprecheckoutquery
func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	reqBody := AnswerPreCheckoutQueryRequest{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}

	var apiResp APIResponse
	if err := c.postJSON(ctx, "/answerPreCheckoutQuery", reqBody, &apiResp); err != nil {
		return fmt.Errorf("telegram answerPreCheckoutQuery failed [query_id=%s]: %w", queryID, err)
	}

	if !apiResp.OK {
		c.log.Debug("telegram answerPreCheckoutQuery API error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
			"query_id", queryID,
		)
		return fmt.Errorf("telegram API error [code=%d, query_id=%s]: %s",
			apiResp.ErrorCode, queryID, apiResp.Description)
	}

	c.log.Debug("pre_checkout_query answered successfully",
		"query_id", queryID,
		"ok", ok,
	)
	return nil
}
