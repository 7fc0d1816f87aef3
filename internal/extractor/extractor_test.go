package extractor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"
	"career-insights/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestExtractJoinsPagesInOrder(t *testing.T) {
	path := writeFile(t, "episode.pdf", []byte("%PDF-1.4\ntranscript\n%%EOF"))

	stager := new(mocks.MockStager)
	recognizer := new(mocks.MockRecognizer)

	stager.On("Stage", mock.Anything, "episode.pdf", mock.MatchedBy(func(r io.Reader) bool {
		data, err := io.ReadAll(r)
		return err == nil && strings.HasPrefix(string(data), "%PDF-1.4")
	})).Return("https://signed.example.com/episode", nil)

	recognizer.On("Recognize", mock.Anything, models.Document{Type: models.DocumentURL, URL: "https://signed.example.com/episode"}).
		Return([]models.Page{{Index: 0, Markdown: "A"}, {Index: 1, Markdown: "B"}, {Index: 2, Markdown: "C"}}, nil)

	text, err := New(stager, recognizer, nil).Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "A\nB\nC", text)
	stager.AssertExpectations(t)
	recognizer.AssertExpectations(t)
}

func TestExtractImageUsesImageURL(t *testing.T) {
	path := writeFile(t, "slide.png", pngHeader)

	stager := new(mocks.MockStager)
	recognizer := new(mocks.MockRecognizer)

	stager.On("Stage", mock.Anything, "slide.png", mock.Anything).Return("https://signed.example.com/slide", nil)
	recognizer.On("Recognize", mock.Anything, models.Document{Type: models.ImageURL, URL: "https://signed.example.com/slide"}).
		Return([]models.Page{{Markdown: "slide text"}}, nil)

	text, err := New(stager, recognizer, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "slide text", text)
}

func TestExtractMissingFile(t *testing.T) {
	stager := new(mocks.MockStager)
	recognizer := new(mocks.MockRecognizer)

	_, err := New(stager, recognizer, nil).Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)

	assert.True(t, strings.HasPrefix(err.Error(), "OCR processing failed: "))
	assert.ErrorIs(t, err, os.ErrNotExist)
	stager.AssertNotCalled(t, "Stage", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractStageFailure(t *testing.T) {
	path := writeFile(t, "episode.pdf", []byte("%PDF-1.4"))

	stager := new(mocks.MockStager)
	recognizer := new(mocks.MockRecognizer)

	stager.On("Stage", mock.Anything, "episode.pdf", mock.Anything).
		Return("", apperrors.New(apperrors.Auth, "mistral upload", errors.New("HTTP 401")))

	_, err := New(stager, recognizer, nil).Extract(context.Background(), path)
	require.Error(t, err)

	assert.Equal(t, "OCR processing failed: mistral upload: HTTP 401", err.Error())
	assert.Equal(t, apperrors.Auth, apperrors.KindOf(err))
	recognizer.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestExtractRecognizeFailure(t *testing.T) {
	path := writeFile(t, "episode.pdf", []byte("%PDF-1.4"))

	stager := new(mocks.MockStager)
	recognizer := new(mocks.MockRecognizer)

	stager.On("Stage", mock.Anything, "episode.pdf", mock.Anything).Return("https://signed.example.com/x", nil)
	recognizer.On("Recognize", mock.Anything, mock.Anything).
		Return(nil, apperrors.New(apperrors.UnsupportedFormat, "mistral ocr", errors.New("HTTP 422")))

	_, err := New(stager, recognizer, nil).Extract(context.Background(), path)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "OCR processing failed")
	assert.Equal(t, apperrors.UnsupportedFormat, apperrors.KindOf(err))
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", JoinPages(nil))
	assert.Equal(t, "only", JoinPages([]models.Page{{Markdown: "only"}}))
	assert.Equal(t, "A\n\nC", JoinPages([]models.Page{{Markdown: "A"}, {Markdown: ""}, {Markdown: "C"}}))
}
