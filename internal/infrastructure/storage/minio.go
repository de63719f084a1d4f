package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ErrForeignURL is returned when a URL does not point into our bucket.
var ErrForeignURL = errors.New("url does not belong to storage bucket")

// MinIOStorage stores category media in a single bucket.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage connects and creates the bucket when missing.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("[STORAGE] Bucket created")
	}

	return &MinIOStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: objectBaseURL(cfg, client.EndpointURL().Scheme, client.EndpointURL().Host),
	}, nil
}

func objectBaseURL(cfg config.MinIOConfig, scheme, host string) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL + "/" + cfg.Bucket
	}
	return fmt.Sprintf("%s://%s/%s", scheme, host, cfg.Bucket)
}

// Upload puts data under key and returns its public URL.
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}
	return s.URL(key), nil
}

func (s *MinIOStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL reverses URL. Returns ErrForeignURL for anything outside the bucket.
func (s *MinIOStorage) KeyFromURL(rawURL string) (string, error) {
	return keyFromURL(s.baseURL, rawURL)
}

func keyFromURL(baseURL, rawURL string) (string, error) {
	prefix := baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) || len(rawURL) == len(prefix) {
		return "", ErrForeignURL
	}
	return strings.TrimPrefix(rawURL, prefix), nil
}

// Delete removes one object. Missing objects are not an error.
func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MinIOStorage) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
