package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/model"
)

// Upload relays files received by the HTTP endpoint to object storage.
type Upload struct {
	storage     model.Storage
	keyStrategy model.KeyStrategy
	logger      *logger.Logger
}

// NewUpload creates an Upload service. An empty strategy means KeyStrategyOriginal.
func NewUpload(storage model.Storage, keyStrategy model.KeyStrategy, logger *logger.Logger) (*Upload, error) {
	switch keyStrategy {
	case "":
		keyStrategy = model.KeyStrategyOriginal
	case model.KeyStrategyOriginal, model.KeyStrategyHashed:
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKeyStrategy, keyStrategy)
	}

	return &Upload{
		storage:     storage,
		keyStrategy: keyStrategy,
		logger:      logger,
	}, nil
}

// Upload stores params.Data and returns the key it was stored under.
func (s *Upload) Upload(ctx context.Context, params model.UploadParams) (string, error) {
	key, err := s.objectKey(params)
	if err != nil {
		return "", err
	}

	stored, err := s.storage.Upload(ctx, key, params.Data)
	if err != nil {
		return "", fmt.Errorf("failed to store %q: %w", key, err)
	}

	s.logger.Debug("upload relayed", "file_name", params.FileName, "key", stored, "size", len(params.Data))
	return stored, nil
}

// Download returns the stored object for key.
func (s *Upload) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", key, err)
	}
	return rc, nil
}

func (s *Upload) objectKey(params model.UploadParams) (string, error) {
	switch s.keyStrategy {
	case model.KeyStrategyHashed:
		sum := sha256.Sum256(params.Data)
		return hex.EncodeToString(sum[:]) + strings.ToLower(filepath.Ext(params.FileName)), nil
	default:
		if params.FileName == "" {
			return "", model.ErrFileRequired
		}
		return params.FileName, nil
	}
}
