package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "career-insights/internal/errors"
	"career-insights/internal/models"
)

const DefaultBaseURL = "https://api.mistral.ai/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	ocrModel   string
	urlExpiry  time.Duration
	logger     *slog.Logger
}

type Options struct {
	BaseURL   string
	OCRModel  string
	URLExpiry time.Duration
	// HTTPClient defaults to a client with no timeout; cancellation comes
	// from the caller's context.
	HTTPClient *http.Client
}

// File is the file object returned by the upload endpoint.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

type signedURLResponse struct {
	URL string `json:"url"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type ocrResponse struct {
	Pages     []ocrPage `json:"pages"`
	Model     string    `json:"model"`
	UsageInfo struct {
		PagesProcessed int   `json:"pages_processed"`
		DocSizeBytes   int64 `json:"doc_size_bytes"`
	} `json:"usage_info"`
}

// APIError carries a non-2xx response from the Mistral API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mistral API error (HTTP %d): %s", e.StatusCode, e.Body)
}

func New(apiKey string, opts Options, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.New(apperrors.Config, "mistral", fmt.Errorf("API key is required"))
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		ocrModel:   opts.OCRModel,
		urlExpiry:  opts.URLExpiry,
		logger:     logger,
	}, nil
}

// UploadFile stores content under OCR purpose and returns the file object.
func (c *Client) UploadFile(ctx context.Context, fileName string, content io.Reader) (*File, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", "ocr"); err != nil {
		return nil, fmt.Errorf("failed to write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/files", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var file File
	if err := c.do(req, "mistral upload", &file); err != nil {
		return nil, err
	}
	if file.ID == "" {
		return nil, apperrors.New(apperrors.Provider, "mistral upload", fmt.Errorf("response did not include a file id"))
	}

	c.logger.Debug("uploaded file", "file_id", file.ID, "bytes", file.Bytes)
	return &file, nil
}

// SignedURL returns a time-limited retrieval URL for an uploaded file.
func (c *Client) SignedURL(ctx context.Context, fileID string) (string, error) {
	path := "/files/" + url.PathEscape(fileID) + "/url"
	if hours := expiryHours(c.urlExpiry); hours > 0 {
		path += fmt.Sprintf("?expiry=%d", hours)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var signed signedURLResponse
	if err := c.do(req, "mistral signed url", &signed); err != nil {
		return "", err
	}
	if signed.URL == "" {
		return "", apperrors.New(apperrors.Provider, "mistral signed url", fmt.Errorf("response did not include a url"))
	}
	return signed.URL, nil
}

// Stage uploads content and returns a signed URL the OCR endpoint can read.
func (c *Client) Stage(ctx context.Context, fileName string, content io.Reader) (string, error) {
	file, err := c.UploadFile(ctx, fileName, content)
	if err != nil {
		return "", err
	}
	return c.SignedURL(ctx, file.ID)
}

// Recognize runs OCR against a staged document. Pages come back in the order
// the service returned them.
func (c *Client) Recognize(ctx context.Context, doc models.Document) ([]models.Page, error) {
	payload := ocrRequest{
		Model:    c.ocrModel,
		Document: ocrDocument{Type: string(doc.Type)},
	}
	if doc.Type == models.ImageURL {
		payload.Document.ImageURL = doc.URL
	} else {
		payload.Document.Type = string(models.DocumentURL)
		payload.Document.DocumentURL = doc.URL
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling ocr request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/ocr", bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result ocrResponse
	if err := c.do(req, "mistral ocr", &result); err != nil {
		return nil, err
	}

	c.logger.Debug("ocr complete", "model", result.Model, "pages_processed", result.UsageInfo.PagesProcessed)

	pages := make([]models.Page, 0, len(result.Pages))
	for _, p := range result.Pages {
		pages = append(pages, models.Page{Index: p.Index, Markdown: p.Markdown})
	}
	return pages, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out, tagging failures by kind.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.New(apperrors.Network, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		return apperrors.New(apperrors.KindForStatus(resp.StatusCode), op, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.New(apperrors.Provider, op, fmt.Errorf("error decoding response: %w", err))
	}
	return nil
}

func expiryHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}
