package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	apperrors "career-insights/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type FileStore struct {
	Client    *s3.Client
	uploader  *manager.Uploader
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

type S3Config struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
	// URLExpiry bounds the lifetime of presigned URLs handed to the OCR service.
	URLExpiry time.Duration
}

func NewFileStore(ctx context.Context, conf S3Config) (*FileStore, error) {

	creds := credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(conf.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	if conf.EndpointURL != "" {
		cfg.BaseEndpoint = aws.String(conf.EndpointURL)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	expiry := conf.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &FileStore{
		Client:    client,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		bucket:    conf.Bucket,
		expiry:    expiry,
	}, nil
}

func (fs *FileStore) Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error) {

	out, err := fs.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return "", apperrors.New(apperrors.Network, "s3 upload", err)
	}

	return out.Location, nil
}

// PresignGet returns a time-limited GET URL for key.
func (fs *FileStore) PresignGet(ctx context.Context, key string) (string, error) {

	req, err := fs.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(fs.expiry))

	if err != nil {
		return "", apperrors.New(apperrors.Provider, "s3 presign", err)
	}

	return req.URL, nil
}

// Stage stores the document under a unique key and returns a presigned URL
// for it.
func (fs *FileStore) Stage(ctx context.Context, fileName string, content io.Reader) (string, error) {

	key := ObjectKey(uuid.New(), fileName)

	if _, err := fs.Upload(ctx, content, key, "application/octet-stream"); err != nil {
		return "", err
	}

	return fs.PresignGet(ctx, key)
}

// ObjectKey namespaces fileName under id so repeated runs never collide.
func ObjectKey(id uuid.UUID, fileName string) string {
	return path.Join("documents", id.String(), path.Base(fileName))
}
