package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"career-insights/internal/anthropic"
	"career-insights/internal/config"
	"career-insights/internal/extractor"
	"career-insights/internal/gemini"
	"career-insights/internal/generator"
	"career-insights/internal/logging"
	"career-insights/internal/mistral"
	"career-insights/internal/objectstore"
	"career-insights/internal/pipeline"
	"career-insights/internal/postgresdb"
	"career-insights/internal/s3"
)

// runPipeline builds every collaborator from cfg and runs one pipeline.
func runPipeline(ctx context.Context, cfg config.Config) (string, error) {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	p, cleanup, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return p.Run(ctx)
}

func buildPipeline(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	ocr, err := mistral.New(cfg.Credentials.MistralAPIKey, mistral.Options{
		BaseURL:   cfg.MistralBaseURL,
		OCRModel:  cfg.OCRModel,
		URLExpiry: cfg.SignedURLExpiry,
	}, logger)
	if err != nil {
		return nil, cleanup, err
	}

	var stager objectstore.Stager = ocr
	if cfg.Staging == config.StagingS3 {
		store, err := s3.NewFileStore(ctx, s3.S3Config{
			EndpointURL: cfg.S3.EndpointURL,
			Region:      cfg.S3.Region,
			AccessKey:   cfg.S3.AccessKey,
			SecretKey:   cfg.S3.SecretKey,
			Bucket:      cfg.S3.Bucket,
			URLExpiry:   cfg.SignedURLExpiry,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("could not create S3 filestore: %w", err)
		}
		stager = store
	}

	var completer generator.Completer
	switch cfg.Provider {
	case config.ProviderGemini:
		completer, err = gemini.New(ctx, cfg.Credentials.GeminiAPIKey, gemini.Options{}, logger)
	default:
		completer, err = anthropic.New(cfg.Credentials.AnthropicAPIKey, logger)
	}
	if err != nil {
		return nil, cleanup, err
	}

	var recorder pipeline.RunRecorder
	if cfg.Record {
		db, err := postgresdb.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to initialize postgresdb: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, cleanup, err
		}
		cleanup = db.Close
		recorder = db
	}

	gen := generator.New(completer, generator.Settings{
		UserContext: cfg.UserContext,
		Model:       cfg.ResolvedModel(),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, logger)

	return pipeline.New(cfg, extractor.New(stager, ocr, logger), gen, recorder, logger), cleanup, nil
}
