package photos

import (
	"context"
	"io"
)

// ObjectStore is the object-storage collaborator: named buckets holding
// photo objects. Implementations map provider errors to the typed outcomes
// in errors.go where their SDK exposes structured codes.
type ObjectStore interface {
	// ListBuckets returns the names of all buckets visible to the current
	// credentials.
	ListBuckets(ctx context.Context) ([]string, error)

	// CreateBucket creates a publicly readable bucket. A bucket that already
	// exists is not an error.
	CreateBucket(ctx context.Context, bucket string) error

	// Upload stores an object with no-overwrite semantics: an existing key
	// yields ErrDuplicateObject.
	Upload(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error

	// Remove deletes the given objects. Missing objects are not an error.
	Remove(ctx context.Context, bucket string, keys []string) error

	// PublicURL returns the public address of an object.
	PublicURL(bucket, key string) (string, error)
}
