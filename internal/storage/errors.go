// Package storage holds helpers shared by the object storage backends.
package storage

import (
	"context"
	"errors"
	"net"

	"github.com/dtroode/imagerelay/internal/model"
)

// Permission and configuration error codes shared by S3 and S3-compatible services.
var (
	permissionCodes = map[string]struct{}{
		"AccessDenied":          {},
		"InvalidAccessKeyId":    {},
		"SignatureDoesNotMatch": {},
		"ExpiredToken":          {},
		"InvalidToken":          {},
		"AllAccessDisabled":     {},
	}
	configurationCodes = map[string]struct{}{
		"NoSuchBucket":                 {},
		"InvalidBucketName":            {},
		"PermanentRedirect":            {},
		"AuthorizationHeaderMalformed": {},
	}
)

// Classify wraps err in a model.StorageError. code is the service error
// code if the backend returned one.
func Classify(op, code string, err error) *model.StorageError {
	return &model.StorageError{Kind: kindOf(code, err), Op: op, Err: err}
}

func kindOf(code string, err error) model.StorageErrorKind {
	if errors.Is(err, model.ErrBucketNotConfigured) {
		return model.StorageErrorConfiguration
	}
	if _, ok := permissionCodes[code]; ok {
		return model.StorageErrorPermission
	}
	if _, ok := configurationCodes[code]; ok {
		return model.StorageErrorConfiguration
	}
	if isNetworkError(err) {
		return model.StorageErrorNetwork
	}
	return model.StorageErrorUnknown
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
