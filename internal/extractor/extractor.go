package extractor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"
	"career-insights/internal/objectstore"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// page counting only; keep pdfcpu from creating a config dir under $HOME
	model.ConfigPath = "disable"
}

// PageSeparator joins OCR pages into one document.
const PageSeparator = "\n"

type Recognizer interface {
	Recognize(ctx context.Context, doc models.Document) ([]models.Page, error)
}

type Extractor struct {
	stager objectstore.Stager
	ocr    Recognizer
	logger *slog.Logger
}

func New(stager objectstore.Stager, ocr Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{stager: stager, ocr: ocr, logger: logger}
}

// Extract stages the file at filePath, runs OCR on it and returns the page
// markdown joined in the order the service returned it. Every failure is
// reported as "OCR processing failed: ..." with the tagged cause preserved.
func (e *Extractor) Extract(ctx context.Context, filePath string) (string, error) {
	text, err := e.extract(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("OCR processing failed: %w", err)
	}
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", apperrors.New(apperrors.Config, "open document", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	docType, contentType := sniff(reader)

	fileName := filepath.Base(filePath)
	logCtx := e.logger.With("file", fileName, "content_type", contentType)

	if contentType == "application/pdf" {
		if pages, ok := pageCount(filePath); ok {
			logCtx = logCtx.With("pdf_pages", pages)
		}
	}
	logCtx.Info("uploading document for OCR")

	signedURL, err := e.stager.Stage(ctx, fileName, reader)
	if err != nil {
		return "", err
	}

	pages, err := e.ocr.Recognize(ctx, models.Document{Type: docType, URL: signedURL})
	if err != nil {
		return "", err
	}

	logCtx.Info("OCR complete", "pages", len(pages))
	return JoinPages(pages), nil
}

// JoinPages concatenates page markdown with PageSeparator, keeping order.
func JoinPages(pages []models.Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Markdown
	}
	return strings.Join(texts, PageSeparator)
}

// pageCount is best effort; pdfcpu can panic on malformed input.
func pageCount(filePath string) (pages int, ok bool) {
	defer func() {
		if recover() != nil {
			pages, ok = 0, false
		}
	}()
	n, err := api.PageCountFile(filePath)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sniff picks the OCR document type from the leading bytes. It never rejects
// a file; the OCR service decides what it accepts.
func sniff(r *bufio.Reader) (models.DocumentType, string) {
	head, err := r.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return models.DocumentURL, "application/octet-stream"
	}

	contentType := http.DetectContentType(head)
	if strings.HasPrefix(contentType, "image/") {
		return models.ImageURL, contentType
	}
	return models.DocumentURL, contentType
}
