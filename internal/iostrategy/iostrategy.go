// Package iostrategy generates registration strategies with a chat
// completions service such as DeepSeek.
package iostrategy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/p1data/p1db/internal/iohttp"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/strategy"
)

// Service is the name used in errors and unavailable payloads.
const Service = "deepseek"

// placeholderKey comes from example env files and counts as no key.
const placeholderKey = "your-deepseek-api-key-here"

const (
	temperature = 0.7
	maxTokens   = 2500
)

type chat struct {
	url    string
	model  string
	apiKey string
	client *iohttp.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// New creates a strategy generator from the services configuration.
func New(cfg *config.Config) strategy.Generator {
	apiKey := cfg.Services.StrategyAPIKey
	if apiKey == placeholderKey {
		apiKey = ""
	}
	return &chat{
		url:    cfg.Services.StrategyURL,
		model:  cfg.Services.StrategyModel,
		apiKey: apiKey,
		client: iohttp.New(Service, time.Duration(cfg.Services.Timeout)*time.Second),
	}
}

func (c *chat) Service() string {
	return Service
}

// Generate sends one chat completion request. Every request carries a
// fresh X-Request-Id for correlation with service logs.
func (c *chat) Generate(
	ctx context.Context,
	system, prompt string,
) (string, error) {
	if c.apiKey == "" {
		return "", iohttp.NotConfiguredError(
			Service, "services.strategy_api_key",
		)
	}

	reqID := uuid.NewString()
	body := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"X-Request-Id":  reqID,
	}

	t0 := time.Now()
	var resp chatResponse
	if err := c.client.Post(ctx, c.url, headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", iohttp.DecodeError(Service, errors.New("empty choices"))
	}

	slog.Info("Strategy generated",
		"request_id", reqID,
		"model", c.model,
		"duration_ms", time.Since(t0).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}
