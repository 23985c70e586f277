package photos

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CanonicalBucket is the bucket name new deployments are expected to create.
const CanonicalBucket = "product-photos"

// bucketVariants are the operator naming drifts seen in the wild, checked in
// order before falling back to a substring match.
var bucketVariants = []string{
	"product-photos",
	"product_photos",
	"productphotos",
	"product-images",
	"product_images",
}

var bucketHints = []string{"product", "photo", "image"}

// BucketResolver discovers which photo bucket is actually provisioned and
// memoizes the answer for the life of the process. Discovery is best-effort:
// when two buckets both match a hint, listing order wins, and listing order
// is provider-dependent.
type BucketResolver struct {
	mu       sync.Mutex
	store    ObjectStore
	logger   *zap.SugaredLogger
	resolved string
}

func NewBucketResolver(store ObjectStore, logger *zap.SugaredLogger) *BucketResolver {
	return &BucketResolver{store: store, logger: logger}
}

// Resolve returns the cached bucket name or runs detection. A failed listing
// yields ErrStorageUnavailable; an empty match yields ErrBucketNotFound.
// Misses are not cached, so a bucket created after startup is picked up on
// the next call.
func (br *BucketResolver) Resolve(ctx context.Context) (string, error) {
	br.mu.Lock()
	defer br.mu.Unlock()

	if br.resolved != "" {
		return br.resolved, nil
	}

	names, err := br.store.ListBuckets(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	for _, variant := range bucketVariants {
		if existing[variant] {
			br.resolved = variant
			br.logger.Infow("detected photo bucket", "bucket", variant)
			return variant, nil
		}
	}

	for _, n := range names {
		lower := strings.ToLower(n)
		for _, hint := range bucketHints {
			if strings.Contains(lower, hint) {
				br.resolved = n
				br.logger.Infow("no known bucket variant found, using similar bucket", "bucket", n)
				return n, nil
			}
		}
	}

	br.logger.Warnw("no suitable photo bucket", "available", names)
	return "", fmt.Errorf("%w: available buckets: %s", ErrBucketNotFound, strings.Join(names, ", "))
}

// Invalidate drops the cached name so the next Resolve re-detects, e.g.
// after an out-of-band bucket creation.
func (br *BucketResolver) Invalidate() {
	br.mu.Lock()
	br.resolved = ""
	br.mu.Unlock()
}
