package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("object not found")
	ErrFileRequired        = errors.New("file is required")
	ErrBucketNotConfigured = errors.New("storage bucket name is not configured")
	ErrUnknownKeyStrategy  = errors.New("unknown key strategy")
	ErrUnknownBackend      = errors.New("unknown storage backend")
)

// StorageErrorKind groups storage failures by what the operator has to fix.
type StorageErrorKind int

const (
	StorageErrorUnknown StorageErrorKind = iota
	StorageErrorConfiguration
	StorageErrorPermission
	StorageErrorNetwork
)

func (k StorageErrorKind) String() string {
	switch k {
	case StorageErrorConfiguration:
		return "configuration"
	case StorageErrorPermission:
		return "permission"
	case StorageErrorNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// StorageError is a classified failure returned by a storage backend.
type StorageError struct {
	Kind StorageErrorKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// StorageErrorKindOf reports the kind of the first StorageError in err's chain.
func StorageErrorKindOf(err error) StorageErrorKind {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrBucketNotConfigured) {
		return StorageErrorConfiguration
	}
	return StorageErrorUnknown
}
