// Package s3 stores uploads in an AWS S3 (or S3-compatible) bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/model"
	"github.com/dtroode/imagerelay/internal/storage"
)

// s3API is the subset of *s3.Client the storage client needs.
type s3API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Options configures the AWS SDK client.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// NewAWSClient builds an SDK client from opts. Static credentials are used
// when an access key is given, the default provider chain otherwise; both
// are only resolved on the first request. SDK retries are disabled.
func NewAWSClient(ctx context.Context, opts Options) (*awss3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

var _ model.Storage = (*Client)(nil)

// Client stores uploads in a single S3 bucket.
type Client struct {
	api         s3API
	bucket      string
	contentType string
	logger      *logger.Logger
}

// NewClient creates a storage client. No request is made until the first upload.
func NewClient(api s3API, bucket, contentType string, logger *logger.Logger) *Client {
	return &Client{
		api:         api,
		bucket:      bucket,
		contentType: contentType,
		logger:      logger,
	}
}

// Upload sends one PutObject request for key with the configured content type.
func (c *Client) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if c.bucket == "" {
		return "", storage.Classify("upload", "", model.ErrBucketNotConfigured)
	}

	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(c.contentType),
	})
	if err != nil {
		c.logger.Error("failed to upload object", "bucket", c.bucket, "key", key, "error", err)
		return "", storage.Classify("upload", errorCode(err), fmt.Errorf("failed to upload object: %w", err))
	}

	c.logger.Info("object uploaded", "bucket", c.bucket, "key", key, "size", len(data))
	return key, nil
}

// Download returns the body of the object stored under key.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if c.bucket == "" {
		return nil, storage.Classify("download", "", model.ErrBucketNotConfigured)
	}

	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		code := errorCode(err)
		if errors.As(err, &noSuchKey) || code == "NoSuchKey" || code == "NotFound" {
			return nil, model.ErrNotFound
		}
		return nil, storage.Classify("download", code, fmt.Errorf("failed to get object: %w", err))
	}

	return out.Body, nil
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
