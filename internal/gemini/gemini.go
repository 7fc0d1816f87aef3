package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"

	"google.golang.org/genai"
)

type GeminiClient struct {
	Client *genai.Client
	logger *slog.Logger
}

type Options struct {
	// BaseURL overrides the Gemini API endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

func New(ctx context.Context, apiKey string, opts Options, logger *slog.Logger) (*GeminiClient, error) {

	if apiKey == "" {
		return nil, apperrors.New(apperrors.Config, "gemini", fmt.Errorf("API key is required"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})

	if err != nil {
		return nil, apperrors.New(apperrors.Config, "gemini", fmt.Errorf("API key error: %w", err))
	}

	return &GeminiClient{Client: client, logger: logger}, nil
}

// Complete returns the text parts of the first candidate, in order.
func (g *GeminiClient) Complete(ctx context.Context, prompt models.Prompt) ([]string, error) {

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(prompt.Temperature)),
		MaxOutputTokens:   int32(prompt.MaxTokens),
	}

	result, err := g.Client.Models.GenerateContent(
		ctx,
		prompt.Model,
		genai.Text(prompt.User),
		config,
	)

	if err != nil {
		var apiErr genai.APIError

		if errors.As(err, &apiErr) {

			switch apiErr.Code {

			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, apperrors.New(apperrors.Auth, "gemini generate", err)
			}

			return nil, apperrors.New(apperrors.Provider, "gemini generate", err)
		}

		return nil, apperrors.New(apperrors.Network, "gemini generate", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, apperrors.New(apperrors.Provider, "gemini generate", fmt.Errorf("gemini returned no candidates"))
	}

	candidate := result.Candidates[0]
	g.logger.Debug("gemini response", "finish_reason", string(candidate.FinishReason))

	fragments := make([]string, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		fragments = append(fragments, part.Text)
	}

	return fragments, nil
}
