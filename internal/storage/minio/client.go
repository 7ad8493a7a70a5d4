package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/model"
	"github.com/dtroode/imagerelay/internal/storage"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

var _ model.Storage = (*Client)(nil)

// Client stores uploads in a MinIO bucket.
type Client struct {
	api         minioAPI
	bucket      string
	contentType string
	logger      *logger.Logger
}

// NewClient creates a new MinIO storage client using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket, contentType string, logger *logger.Logger) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket, contentType, logger)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
// The bucket is created when it is configured but missing. An empty bucket
// name is accepted here and reported by every Upload call instead.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, contentType string, logger *logger.Logger) (*Client, error) {
	c := &Client{
		api:         api,
		bucket:      bucket,
		contentType: contentType,
		logger:      logger,
	}

	if bucket == "" {
		return c, nil
	}

	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		c.logger.Info("created bucket", "bucket", c.bucket)
	}

	return nil
}

// Upload puts data under key with the configured content type.
func (c *Client) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if c.bucket == "" {
		return "", storage.Classify("upload", "", model.ErrBucketNotConfigured)
	}

	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: c.contentType,
	})
	if err != nil {
		c.logger.Error("failed to upload object", "bucket", c.bucket, "key", key, "error", err)
		return "", storage.Classify("upload", minio.ToErrorResponse(err).Code, fmt.Errorf("failed to upload object: %w", err))
	}

	c.logger.Info("object uploaded", "bucket", c.bucket, "key", key, "size", len(data))
	return key, nil
}

// Download returns the object stored under key.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if c.bucket == "" {
		return nil, storage.Classify("download", "", model.ErrBucketNotConfigured)
	}

	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "NoSuchKey" {
			return nil, model.ErrNotFound
		}
		return nil, storage.Classify("download", code, fmt.Errorf("failed to stat object: %w", err))
	}

	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, storage.Classify("download", minio.ToErrorResponse(err).Code, fmt.Errorf("failed to get object: %w", err))
	}
	return obj, nil
}
