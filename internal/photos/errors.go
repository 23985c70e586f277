package photos

import (
	"errors"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")

	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrBucketNotFound     = errors.New("no suitable storage bucket found")

	ErrDuplicateObject   = errors.New("object already exists")
	ErrSizeExceeded      = errors.New("object size exceeds bucket limit")
	ErrTypeRejected      = errors.New("object type rejected by bucket")
	ErrBucketUnavailable = errors.New("bucket unavailable")
	ErrUploadFailed      = errors.New("upload failed")
	ErrURLGeneration     = errors.New("failed to generate public URL")
)

// classifyUploadError maps provider error text to the typed outcomes above.
// Heuristic string matching; providers with structured error codes should be
// mapped in their ObjectStore implementation instead, this is the fallback.
func classifyUploadError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrDuplicateObject),
		errors.Is(err, ErrSizeExceeded),
		errors.Is(err, ErrTypeRejected),
		errors.Is(err, ErrBucketUnavailable):
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists"):
		return ErrDuplicateObject
	case strings.Contains(msg, "size"):
		return ErrSizeExceeded
	case strings.Contains(msg, "type"):
		return ErrTypeRejected
	case strings.Contains(msg, "bucket"):
		return ErrBucketUnavailable
	default:
		return ErrUploadFailed
	}
}
