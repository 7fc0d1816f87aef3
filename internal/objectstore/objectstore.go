package objectstore

import (
	"context"
	"io"
)

// Stager puts a document somewhere the OCR service can fetch it and returns
// a signed, time-limited URL for it.
type Stager interface {
	Stage(ctx context.Context, fileName string, content io.Reader) (string, error)
}
