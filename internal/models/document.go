package models

// DocumentType selects how the OCR service fetches a staged file.
type DocumentType string

const (
	DocumentURL DocumentType = "document_url"
	ImageURL    DocumentType = "image_url"
)

// Document points the OCR service at a staged file.
type Document struct {
	Type DocumentType
	URL  string
}

// Page is one page of OCR output.
type Page struct {
	Index    int
	Markdown string
}

// Prompt is a single chat-style request to a generation service.
type Prompt struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float64
}
