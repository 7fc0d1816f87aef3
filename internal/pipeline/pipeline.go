package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"career-insights/internal/config"
	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"

	"github.com/google/uuid"
)

type Extractor interface {
	Extract(ctx context.Context, filePath string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (string, error)
}

// RunRecorder keeps a history of pipeline runs. Only the final result is
// stored, never the extracted transcript.
type RunRecorder interface {
	Create(ctx context.Context, run *models.Run) error
	UpdateStatus(ctx context.Context, runID uuid.UUID, status models.Status) error
	Complete(ctx context.Context, runID uuid.UUID, insights string) error
	Fail(ctx context.Context, runID uuid.UUID, errMsg string) error
}

type Pipeline struct {
	cfg       config.Config
	extractor Extractor
	analyzer  Analyzer
	recorder  RunRecorder
	logger    *slog.Logger
}

// New wires the two stages together. recorder may be nil.
func New(cfg config.Config, extractor Extractor, analyzer Analyzer, recorder RunRecorder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, extractor: extractor, analyzer: analyzer, recorder: recorder, logger: logger}
}

// Run extracts the configured document and analyzes it. A failed extraction
// ends the run before the analyzer is called.
func (p *Pipeline) Run(ctx context.Context) (string, error) {

	runID := p.startRun(ctx)
	logCtx := p.logger.With("run_id", runID.String())

	logCtx.Info("pipeline started", "stage", models.StatusExtracting.String(), "file", p.cfg.FilePath)

	transcript, err := p.extractor.Extract(ctx, p.cfg.FilePath)

	if err != nil {
		p.failRun(ctx, runID, err)
		logCtx.Error("extraction failed", "error", err, "kind", apperrors.KindOf(err).String())
		return "", err
	}

	p.recordStatus(ctx, runID, models.StatusGenerating)
	logCtx.Info("extraction complete", "stage", models.StatusGenerating.String(), "transcript_chars", len(transcript))

	insights, err := p.analyzer.Analyze(ctx, transcript)

	if err != nil {
		p.failRun(ctx, runID, err)
		logCtx.Error("analysis failed", "error", err, "kind", apperrors.KindOf(err).String())
		return "", err
	}

	p.completeRun(ctx, runID, insights)
	logCtx.Info("pipeline complete", "insights_chars", len(insights))

	return insights, nil
}

// Process never fails: errors come back as "Error processing transcript: ...".
func (p *Pipeline) Process(ctx context.Context) string {
	insights, err := p.Run(ctx)
	if err != nil {
		return FormatError(err)
	}
	return insights
}

func FormatError(err error) string {
	return fmt.Sprintf("Error processing transcript: %v", err)
}

// recording problems are logged and never change the pipeline outcome

func (p *Pipeline) startRun(ctx context.Context) uuid.UUID {

	runID, err := uuid.NewV7()
	if err != nil {
		runID = uuid.New()
	}

	if p.recorder == nil {
		return runID
	}

	run := &models.Run{
		ID:        runID,
		Status:    models.StatusExtracting,
		FileName:  filepath.Base(p.cfg.FilePath),
		Model:     p.cfg.ResolvedModel(),
		CreatedAt: time.Now().UTC(),
	}

	if err := p.recorder.Create(ctx, run); err != nil {
		p.logger.Warn("failed to record run", "run_id", runID.String(), "error", err)
	}
	return runID
}

func (p *Pipeline) recordStatus(ctx context.Context, runID uuid.UUID, status models.Status) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.UpdateStatus(ctx, runID, status); err != nil {
		p.logger.Warn("failed to update run status", "run_id", runID.String(), "status", status.String(), "error", err)
	}
}

func (p *Pipeline) completeRun(ctx context.Context, runID uuid.UUID, insights string) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Complete(context.WithoutCancel(ctx), runID, insights); err != nil {
		p.logger.Warn("failed to record completed run", "run_id", runID.String(), "error", err)
	}
}

func (p *Pipeline) failRun(ctx context.Context, runID uuid.UUID, cause error) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Fail(context.WithoutCancel(ctx), runID, cause.Error()); err != nil {
		p.logger.Warn("failed to record failed run", "run_id", runID.String(), "error", err)
	}
}
