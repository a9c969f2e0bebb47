package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client клиент для chat/completions API (Groq, OpenAI-совместимый формат)
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент для генерации текста
func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 18 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// truncateString обрезает строку для логов
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Complete отправляет prompt и возвращает текст первого choice.
// Транзиентные ошибки ретраятся с экспоненциальным backoff в пределах MaxRetrySeconds.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if !c.cfg.IsConfigured() {
		return "", fmt.Errorf("groq API key is not configured")
	}

	req := ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var result string
	operation := func() error {
		text, err := c.complete(ctx, req)
		if err != nil {
			return err
		}
		result = text
		return nil
	}

	maxElapsed := time.Duration(c.cfg.MaxRetrySeconds) * time.Second
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return "", fmt.Errorf("completion failed after retries: %w", err)
	}

	return result, nil
}

func (c *Client) complete(ctx context.Context, req ChatCompletionRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("completion API returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		err := fmt.Errorf("completion API error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 200))
		// 4xx ретраить бессмысленно
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	var completionResp ChatCompletionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		c.Log.Debug("failed to unmarshal completion response",
			"error", err,
			"body_preview", truncateString(string(body), 200),
		)
		return "", backoff.Permanent(fmt.Errorf("completion unmarshal failed: %w", err))
	}

	if len(completionResp.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("completion API returned no choices"))
	}

	return strings.TrimSpace(completionResp.Choices[0].Message.Content), nil
}
