package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Client struct {
	client anthropic.Client
	logger *slog.Logger
}

// New builds a Messages API client. Extra options (base URL, HTTP client)
// are appended after the defaults.
func New(apiKey string, logger *slog.Logger, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.New(apperrors.Config, "anthropic", fmt.Errorf("API key is required"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	// the SDK retries by default; this tool makes exactly one attempt
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}

	return &Client{
		client: anthropic.NewClient(append(base, opts...)...),
		logger: logger,
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt models.Prompt) ([]string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(prompt.Model),
		MaxTokens:   int64(prompt.MaxTokens),
		Temperature: anthropic.Float(prompt.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	c.logger.Debug("anthropic response",
		"stop_reason", string(message.StopReason),
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens)

	fragments := make([]string, 0, len(message.Content))
	for _, block := range message.Content {
		if block.Type == "text" {
			fragments = append(fragments, block.Text)
		}
	}
	return fragments, nil
}

// classify tags API status errors by code; anything that never got a
// response is a network failure.
func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		kind := apperrors.Provider
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			kind = apperrors.Auth
		}
		return apperrors.New(kind, "anthropic messages", err)
	}
	return apperrors.New(apperrors.Network, "anthropic messages", err)
}
