package main

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/imagerelay/internal/config"
	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/model"
	minioStorage "github.com/dtroode/imagerelay/internal/storage/minio"
	s3Storage "github.com/dtroode/imagerelay/internal/storage/s3"
)

// newStorage builds the storage client of the configured backend once per process.
func newStorage(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.Storage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		api, err := s3Storage.NewAWSClient(ctx, s3Storage.Options{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s3Storage.NewClient(api, cfg.S3.Bucket, cfg.Upload.ContentType, logger.With("backend", "s3")), nil

	case "minio":
		minioClient, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := minioStorage.NewClient(ctx, minioClient, cfg.MinIO.Bucket, cfg.Upload.ContentType, logger.With("backend", "minio"))
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownBackend, cfg.Storage.Backend)
	}
}
