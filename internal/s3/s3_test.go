package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"career-insights/internal/s3"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setUpS3(t *testing.T) *s3.FileStore {
	t.Helper()

	// Get configuration from environment variables
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	bucket := os.Getenv("MINIO_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" {
		t.Skip("MinIO configuration not set (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY), skipping integration test")
	}

	if bucket == "" {
		bucket = "transcripts"
	}

	s3Store, err := s3.NewFileStore(context.Background(), s3.S3Config{
		EndpointURL: endpoint,
		Region:      "us-east-1",
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		Bucket:      bucket,
		URLExpiry:   10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed creating FileStore: %v", err)
	}

	return s3Store
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("0190a8e4-7a3c-7b4e-9f3a-2c1d5e6f7a8b")

	assert.Equal(t, "documents/0190a8e4-7a3c-7b4e-9f3a-2c1d5e6f7a8b/episode.pdf", s3.ObjectKey(id, "episode.pdf"))
	assert.Equal(t, "documents/0190a8e4-7a3c-7b4e-9f3a-2c1d5e6f7a8b/episode.pdf", s3.ObjectKey(id, "../podcasts/episode.pdf"))
}

// TestStageReturnsReadableURL uploads a document and fetches it back through the presigned URL.
func TestStageReturnsReadableURL(t *testing.T) {
	s3Store := setUpS3(t)
	ctx := context.Background()

	content := "%PDF-1.4\n%Mock transcript for testing\n%%EOF"

	signed, err := s3Store.Stage(ctx, "episode.pdf", bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	resp, err := http.Get(signed)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
}
