package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"career-insights/internal/models"
)

// Completer sends one prompt to a generation service and returns the text
// fragments of its response in order.
type Completer interface {
	Complete(ctx context.Context, prompt models.Prompt) ([]string, error)
}

type Settings struct {
	UserContext string
	Model       string
	MaxTokens   int
	Temperature float64
}

type Generator struct {
	completer Completer
	settings  Settings
	logger    *slog.Logger
}

func New(completer Completer, settings Settings, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{completer: completer, settings: settings, logger: logger}
}

// BuildPrompt embeds the transcript and user context into the fixed template.
func (g *Generator) BuildPrompt(transcript string) models.Prompt {
	return models.Prompt{
		System:      SystemPrompt,
		User:        fmt.Sprintf(userPromptTemplate, g.settings.UserContext, transcript),
		Model:       g.settings.Model,
		MaxTokens:   g.settings.MaxTokens,
		Temperature: g.settings.Temperature,
	}
}

// Analyze returns the generation service's response fragments concatenated
// with no separator. Failures read "Analysis failed: ...".
func (g *Generator) Analyze(ctx context.Context, transcript string) (string, error) {
	prompt := g.BuildPrompt(transcript)

	g.logger.Info("requesting analysis",
		"model", prompt.Model,
		"max_tokens", prompt.MaxTokens,
		"temperature", prompt.Temperature,
		"transcript_chars", len(transcript))

	fragments, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("Analysis failed: %w", err)
	}

	return strings.Join(fragments, ""), nil
}
