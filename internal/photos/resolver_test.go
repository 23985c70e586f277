package photos

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is a scriptable ObjectStore for pipeline and resolver tests.
type fakeStore struct {
	buckets   []string
	listErr   error
	listCalls int
	uploadErr error
	uploaded  []string
	removed   []string
	removeErr error
	urlErr    error
	created   []string
	createErr error
	emptyURL  bool
}

func (f *fakeStore) ListBuckets(ctx context.Context) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.buckets, nil
}

func (f *fakeStore) CreateBucket(ctx context.Context, bucket string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, bucket)
	return nil
}

func (f *fakeStore) Upload(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, bucket+"/"+key)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, bucket string, keys []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, keys...)
	return nil
}

func (f *fakeStore) PublicURL(bucket, key string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	if f.emptyURL {
		return "", nil
	}
	return "https://storage.example.com/" + bucket + "/" + key, nil
}

func testResolver(store ObjectStore) *BucketResolver {
	return NewBucketResolver(store, zap.NewNop().Sugar())
}

func TestResolve_ExactVariantWins(t *testing.T) {
	store := &fakeStore{buckets: []string{"avatars", "product_images"}}

	name, err := testResolver(store).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "product_images", name)
}

func TestResolve_VariantBeatsSubstring(t *testing.T) {
	store := &fakeStore{buckets: []string{"my-photo-bucket", "product-photos"}}

	name, err := testResolver(store).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "product-photos", name)
}

func TestResolve_SubstringFallback(t *testing.T) {
	store := &fakeStore{buckets: []string{"avatars", "my-photo-bucket"}}

	name, err := testResolver(store).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "my-photo-bucket", name)
}

func TestResolve_NothingSuitable(t *testing.T) {
	store := &fakeStore{buckets: []string{"avatars", "backups"}}

	name, err := testResolver(store).Resolve(context.Background())

	assert.Empty(t, name)
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestResolve_ListingFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}

	_, err := testResolver(store).Resolve(context.Background())

	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestResolve_CachesHitsButNotMisses(t *testing.T) {
	store := &fakeStore{}
	r := testResolver(store)

	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, ErrBucketNotFound)

	// A bucket created out-of-band is picked up without Invalidate, since
	// misses are not cached.
	store.buckets = []string{"product-photos"}
	name, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "product-photos", name)

	// Hits are cached: no further listing calls.
	before := store.listCalls
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, store.listCalls)
}

func TestResolve_InvalidateForcesRedetection(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	r := testResolver(store)

	_, err := r.Resolve(context.Background())
	require.NoError(t, err)

	r.Invalidate()
	store.buckets = []string{"product_images"}

	name, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "product_images", name)
}
