package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	manualSvc "manuals/internal/domain/services/manual"
)

// MinioConfig configures the MinIO export store
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration // lifetime of the returned download link
}

// MinioStore archives exports in a MinIO (or S3-compatible) bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *slog.Logger
}

// NewMinioStore connects and creates the bucket when it does not exist
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (manualSvc.ExportStore, error) {
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
		logger.Info("export bucket created", "bucket", cfg.Bucket)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, expiry: expiry, logger: logger}, nil
}

// Put uploads body and returns a presigned download URL
func (s *MinioStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		s.logger.Warn("presign failed, returning object key", "key", key, "error", err)
		return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
	}
	return url.String(), nil
}
