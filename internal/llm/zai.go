package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

const (
	DefaultEndpoint    = "https://api.z.ai/api/paas/v4/chat/completions"
	DefaultModel       = "glm-4.7-flash"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096
)

// DefaultConfig returns the stock Z.AI settings
func DefaultConfig() Config {
	return Config{
		Endpoint:     DefaultEndpoint,
		Model:        DefaultModel,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		MaxDiffChars: MaxDiffChars,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

// complete performs one non-streaming chat completion and returns the
// assistant text.
func (c *Client) complete(ctx context.Context, apiKey string, messages []Message, co callOptions) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: co.temperature,
		MaxTokens:   co.maxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	c.logger.Debug("POST %s model=%s max_tokens=%d", c.cfg.Endpoint, c.cfg.Model, co.maxTokens)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			bodyBytes = nil
		}
		c.logger.Warn("chat completion failed with status %d after %s", resp.StatusCode, time.Since(start))
		return "", &apperrors.APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(ctx, err)
	}
	c.logger.Debug("chat completion returned %d bytes in %s", len(raw), time.Since(start))

	content, ok := extractContent(raw, c.extractors)
	if !ok {
		return "", &apperrors.ParseError{Snapshot: snapshot(raw)}
	}
	return content, nil
}

// transportError tells an explicit cancellation apart from other failures
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", apperrors.ErrCanceled, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
}
