package chat_errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnsupported   = errors.New("operation not supported")
)

// StorageError wraps a failure in the attachment storage backend. A
// StorageError returned from a multi-file store means files written before
// the failing one are still on disk or in the bucket.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError builds a StorageError for operation op on file name.
func NewStorageError(op, name string, err error) *StorageError {
	return &StorageError{Op: op, Name: name, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
