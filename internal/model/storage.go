package model

import (
	"context"
	"io"
)

// Storage is an object storage bucket the relay writes uploads to.
type Storage interface {
	// Upload writes data under key, replacing any object with the same key,
	// and returns the key it was stored under.
	Upload(ctx context.Context, key string, data []byte) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
