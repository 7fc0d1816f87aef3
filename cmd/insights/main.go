// Command insights extracts text from a document with OCR and asks an LLM for
// career insights about it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-insights/internal/config"
	apperrors "career-insights/internal/errors"
	"career-insights/internal/pipeline"

	"github.com/spf13/cobra"
)

// runFunc executes the pipeline for a fully resolved configuration.
type runFunc func(ctx context.Context, cfg config.Config) (string, error)

// reported marks an error that has already been written to stderr.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, runPipeline)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, run runFunc) int {
	cmd := newRootCmd(stdout, stderr, run)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var done reported
	if !errors.As(err, &done) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return apperrors.ExitCode(err)
}

func newRootCmd(stdout, stderr io.Writer, run runFunc) *cobra.Command {
	var (
		userContext string
		model       string
		maxTokens   int
		temperature float64
		provider    string
		staging     string
		ocrModel    string
		timeout     time.Duration
		envFile     string
		record      bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "insights <file_path>",
		Short: "Analyze podcast transcripts for career insights",
		Long: "insights uploads a transcript document to an OCR service, sends the extracted text to an LLM " +
			"with a fixed career-analysis prompt, and prints the result.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return apperrors.New(apperrors.Config, "", err)
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			cfg.FilePath = args[0]
			cfg.UserContext = userContext

			flags := cmd.Flags()
			if flags.Changed("model") {
				cfg.Model = model
			}
			if flags.Changed("max-tokens") {
				cfg.MaxTokens = maxTokens
			}
			if flags.Changed("temperature") {
				cfg.Temperature = temperature
			}
			if flags.Changed("provider") {
				cfg.Provider = provider
			}
			if flags.Changed("staging") {
				cfg.Staging = staging
			}
			if flags.Changed("ocr-model") {
				cfg.OCRModel = ocrModel
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if timeout < 0 {
				return apperrors.New(apperrors.Config, "", fmt.Errorf("timeout must not be negative, got %s", timeout))
			}
			cfg.Timeout = timeout
			cfg.Record = record

			if err := cfg.Validate(); err != nil {
				return err
			}

			insights, err := run(cmd.Context(), cfg)
			if err != nil {
				fmt.Fprintln(stderr, pipeline.FormatError(err))
				return reported{err: err}
			}

			fmt.Fprintln(stdout, insights)
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return apperrors.New(apperrors.Config, "", err)
	})

	flags := cmd.Flags()
	flags.StringVar(&userContext, "user-context", config.DefaultUserContext,
		"Brief description of your background and what you're looking to learn")
	flags.StringVar(&model, "model", "", "Generation model (default depends on --provider)")
	flags.IntVar(&maxTokens, "max-tokens", config.DefaultMaxTokens, "Maximum tokens in the analysis")
	flags.Float64Var(&temperature, "temperature", config.DefaultTemperature, "Sampling temperature")
	flags.StringVar(&provider, "provider", config.ProviderAnthropic, "Generation service: anthropic or gemini")
	flags.StringVar(&staging, "staging", config.StagingMistral, "Where the document is staged for OCR: mistral or s3")
	flags.StringVar(&ocrModel, "ocr-model", config.DefaultOCRModel, "OCR model")
	flags.DurationVar(&timeout, "timeout", 0, "Overall deadline, e.g. 5m (0 means none)")
	flags.StringVar(&envFile, "env-file", ".env", "Optional environment file")
	flags.BoolVar(&record, "record", false, "Record the run in Postgres (requires DATABASE_URL)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}
