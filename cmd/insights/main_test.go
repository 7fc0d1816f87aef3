package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"career-insights/internal/config"
	apperrors "career-insights/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	cfg      config.Config
	calls    int
	insights string
	err      error
}

func (r *recordingRunner) run(ctx context.Context, cfg config.Config) (string, error) {
	r.calls++
	r.cfg = cfg
	return r.insights, r.err
}

func setCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{"INSIGHTS_MODEL", "INSIGHTS_PROVIDER", "INSIGHTS_STAGING", "INSIGHTS_MAX_TOKENS", "INSIGHTS_TEMPERATURE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("MISTRAL_API_KEY", "m-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
}

func runCLI(t *testing.T, runner *recordingRunner, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	envFile := filepath.Join(t.TempDir(), "missing.env")
	code := execute(context.Background(), append(args, "--env-file", envFile), &stdout, &stderr, runner.run)
	return code, stdout.String(), stderr.String()
}

func TestDefaultUserContextUsedVerbatim(t *testing.T) {
	setCredentials(t)
	runner := &recordingRunner{insights: "Hello world"}

	code, stdout, _ := runCLI(t, runner, "episode.pdf")

	assert.Equal(t, 0, code)
	assert.Equal(t, "Hello world\n", stdout)
	assert.Equal(t, "I am a professional looking to grow my career in technology and startups.", runner.cfg.UserContext)
	assert.Equal(t, "episode.pdf", runner.cfg.FilePath)
	assert.Equal(t, config.DefaultModel, runner.cfg.ResolvedModel())
	assert.Equal(t, 4000, runner.cfg.MaxTokens)
	assert.Equal(t, 1.0, runner.cfg.Temperature)
}

func TestUserContextFlagReplacesDefault(t *testing.T) {
	setCredentials(t)
	runner := &recordingRunner{insights: "ok"}

	code, _, _ := runCLI(t, runner, "episode.pdf", "--user-context", "I lead platform engineering at a Series B startup.")

	assert.Equal(t, 0, code)
	assert.Equal(t, "I lead platform engineering at a Series B startup.", runner.cfg.UserContext)
}

func TestAnalysisFlagsOverrideConfig(t *testing.T) {
	setCredentials(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	runner := &recordingRunner{insights: "ok"}

	code, _, stderr := runCLI(t, runner, "episode.pdf",
		"--provider", "gemini",
		"--model", "gemini-2.5-pro",
		"--max-tokens", "1500",
		"--temperature", "0.3",
		"--timeout", "2m",
	)

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, config.ProviderGemini, runner.cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", runner.cfg.ResolvedModel())
	assert.Equal(t, 1500, runner.cfg.MaxTokens)
	assert.Equal(t, 0.3, runner.cfg.Temperature)
	assert.Equal(t, 2*time.Minute, runner.cfg.Timeout)
}

func TestMissingFileArgumentIsUsageError(t *testing.T) {
	setCredentials(t)
	runner := &recordingRunner{}

	code, stdout, stderr := runCLI(t, runner)

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
	assert.Equal(t, 0, runner.calls)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	setCredentials(t)
	runner := &recordingRunner{}

	code, _, _ := runCLI(t, runner, "episode.pdf", "--verbose")

	assert.Equal(t, 2, code)
	assert.Equal(t, 0, runner.calls)
}

func TestMissingCredentialIsConfigError(t *testing.T) {
	setCredentials(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	runner := &recordingRunner{}

	code, _, stderr := runCLI(t, runner, "episode.pdf")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "ANTHROPIC_API_KEY")
	assert.Equal(t, 0, runner.calls)
}

func TestPipelineFailureGoesToStderrWithExitCode(t *testing.T) {
	setCredentials(t)
	cause := apperrors.New(apperrors.UnsupportedFormat, "mistral ocr", errors.New("HTTP 422"))
	runner := &recordingRunner{err: errors.Join(errors.New("OCR processing failed"), cause)}

	code, stdout, stderr := runCLI(t, runner, "episode.pdf")

	assert.Equal(t, 5, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error processing transcript: ")
	assert.Contains(t, stderr, "HTTP 422")
	assert.NotContains(t, stderr, "Error: ")
}
