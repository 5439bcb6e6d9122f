// Package ai relays analysis requests to an OpenAI-compatible chat
// completion API using the caller's own key.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"geowatch/internal/config"
	"geowatch/internal/metrics"
)

// ErrMissingKey is returned when a request carries no API key.
var ErrMissingKey = errors.New("OpenAI API key is required")

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("empty response from AI")

// Client builds a provider client per call because every request brings its
// own key.
type Client struct {
	cfg     config.AIConfig
	http    *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Client. Empty model names fall back to the provider defaults
// the dashboard was built against.
func New(cfg config.AIConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.GPT4TurboPreview
	}
	if cfg.InsightsModel == "" {
		cfg.InsightsModel = openai.GPT4TurboPreview
	}
	if cfg.ExtractModel == "" {
		cfg.ExtractModel = openai.GPT4oMini
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 2 * time.Minute},
		logger:  log,
		metrics: m,
	}
}

func (c *Client) provider(key string) *openai.Client {
	pc := openai.DefaultConfig(key)
	if c.cfg.BaseURL != "" {
		pc.BaseURL = strings.TrimRight(c.cfg.BaseURL, "/")
	}
	pc.HTTPClient = c.http
	return openai.NewClientWithConfig(pc)
}

func (c *Client) complete(ctx context.Context, key string, req openai.ChatCompletionRequest) (content string, err error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrMissingKey
	}

	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(metrics.UpstreamAI, err, time.Since(start)) }()

	resp, err := c.provider(key).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", req.Model, err)
	}

	c.logger.Debug("chat completion",
		zap.String("model", req.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// IsUnauthorized reports whether the provider rejected the key.
func IsUnauthorized(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusUnauthorized
	}
	return false
}

// ProviderMessage returns the provider's own error text when there is one, which is
// what the dashboard shows to users.
func ProviderMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
