package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// UploadResult is the discriminated outcome of an upload attempt. Expected
// failures land in Error; the pipeline does not panic for them.
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DeleteResult reports what a best-effort photo deletion actually did.
// Callers are expected to ignore Err: photo deletion must never block the
// primary operation. The field exists so the policy is visible in code
// review and tests rather than hidden behind a swallowed error.
type DeleteResult struct {
	Removed bool
	Err     error
}

// Status reports storage availability for the setup/status endpoint.
type Status struct {
	Available  bool   `json:"available"`
	BucketName string `json:"bucket_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Service is the product photo upload/delete pipeline.
type Service struct {
	store    ObjectStore
	resolver *BucketResolver
	keys     *KeyGenerator
	logger   *zap.SugaredLogger
	debug    *DebugLog // nil outside development
}

func NewService(store ObjectStore, resolver *BucketResolver, keys *KeyGenerator, logger *zap.SugaredLogger, debug *DebugLog) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		keys:     keys,
		logger:   logger,
		debug:    debug,
	}
}

// Upload validates the file, resolves the bucket, stores the object under a
// fresh key and returns its public URL. All expected failures come back as
// a failed UploadResult; a missing owner id is a programmer error and
// panics.
func (s *Service) Upload(ctx context.Context, ownerID int64, filename, contentType string, size int64, r io.Reader) UploadResult {
	if ownerID <= 0 {
		panic("photos: Upload called without owner id")
	}

	if err := ValidateFile(contentType, size); err != nil {
		s.debug.Record("validate", false, err, map[string]any{"file": filename, "size": size})
		return UploadResult{Error: err.Error()}
	}
	s.debug.Record("validate", true, nil, map[string]any{"file": filename, "size": size})

	bucket, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.debug.Record("resolve_bucket", false, err, nil)
		return UploadResult{Error: err.Error()}
	}
	s.debug.Record("resolve_bucket", true, nil, map[string]any{"bucket": bucket})

	key, err := s.keys.ObjectKey(ownerID, filename)
	if err != nil {
		s.logger.Errorw("object key generation failed", "error", err)
		return UploadResult{Error: "upload failed"}
	}

	if err := s.store.Upload(ctx, bucket, key, contentType, r, size); err != nil {
		mapped := classifyUploadError(err)
		s.debug.Record("upload", false, err, map[string]any{"bucket": bucket, "key": key})
		s.logger.Warnw("photo upload failed", "bucket", bucket, "key", key, "error", err)

		switch {
		case errors.Is(mapped, ErrDuplicateObject):
			return UploadResult{Error: "file already exists, please try again"}
		case errors.Is(mapped, ErrSizeExceeded):
			return UploadResult{Error: "file size exceeds limit"}
		case errors.Is(mapped, ErrTypeRejected):
			return UploadResult{Error: "file type not allowed"}
		case errors.Is(mapped, ErrBucketUnavailable):
			return UploadResult{Error: "storage bucket unavailable"}
		default:
			return UploadResult{Error: fmt.Sprintf("upload failed: %v", err)}
		}
	}
	s.debug.Record("upload", true, nil, map[string]any{"bucket": bucket, "key": key})

	publicURL, err := s.store.PublicURL(bucket, key)
	if err != nil || publicURL == "" {
		s.debug.Record("public_url", false, ErrURLGeneration, map[string]any{"key": key})
		return UploadResult{Error: ErrURLGeneration.Error()}
	}
	s.debug.Record("public_url", true, nil, map[string]any{"url": publicURL})

	return UploadResult{Success: true, URL: publicURL, FileName: key}
}

// Delete is best-effort removal of a stored photo. The object key is the
// trailing path segment of the URL scoped under the owner's prefix. Whatever
// happens, the caller's primary operation must proceed; failures are logged
// and surfaced only through the ignored result.
func (s *Service) Delete(ctx context.Context, ownerID int64, photoURL string) DeleteResult {
	if photoURL == "" {
		return DeleteResult{}
	}

	bucket, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.logger.Warnw("photo delete skipped, bucket unresolved", "error", err)
		return DeleteResult{Err: err}
	}

	key := fmt.Sprintf("%d/%s", ownerID, trailingSegment(photoURL))
	if err := s.store.Remove(ctx, bucket, []string{key}); err != nil {
		s.logger.Warnw("photo delete failed", "key", key, "error", err)
		return DeleteResult{Err: err}
	}

	return DeleteResult{Removed: true}
}

// CheckStatus reports whether uploads can work right now and which bucket
// they would use.
func (s *Service) CheckStatus(ctx context.Context) Status {
	bucket, err := s.resolver.Resolve(ctx)
	if err != nil {
		return Status{Error: err.Error()}
	}
	return Status{Available: true, BucketName: bucket}
}

// EnsureBucket creates the canonical bucket if missing and invalidates the
// resolver cache so the new bucket is picked up.
func (s *Service) EnsureBucket(ctx context.Context) error {
	if err := s.store.CreateBucket(ctx, CanonicalBucket); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	s.resolver.Invalidate()
	return nil
}

// RefreshBucket drops the cached bucket name and re-runs detection.
func (s *Service) RefreshBucket(ctx context.Context) Status {
	s.resolver.Invalidate()
	return s.CheckStatus(ctx)
}

// DebugEntries exposes the recorded pipeline steps for the debug endpoint.
func (s *Service) DebugEntries() []DebugEntry {
	return s.debug.Entries()
}

func trailingSegment(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		return parts[len(parts)-1]
	}
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}
