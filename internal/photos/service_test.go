package photos

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService(store ObjectStore, debug *DebugLog) *Service {
	keys, err := NewKeyGenerator("test-salt")
	if err != nil {
		panic(err)
	}
	return NewService(store, NewBucketResolver(store, zap.NewNop().Sugar()), keys, zap.NewNop().Sugar(), debug)
}

func TestUpload_Success(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	svc := testService(store, nil)

	res := svc.Upload(context.Background(), 7, "selfie.JPG", "image/jpeg", 1024, strings.NewReader("data"))

	require.True(t, res.Success, res.Error)
	assert.Regexp(t, regexp.MustCompile(`^7/\d+-[a-zA-Z0-9]+\.jpg$`), res.FileName)
	assert.Equal(t, "https://storage.example.com/product-photos/"+res.FileName, res.URL)
	require.Len(t, store.uploaded, 1)
	assert.Equal(t, "product-photos/"+res.FileName, store.uploaded[0])
}

func TestUpload_ValidationShortCircuits(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	svc := testService(store, nil)

	res := svc.Upload(context.Background(), 7, "doc.pdf", "application/pdf", 1024, strings.NewReader("x"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "allowed types")
	assert.Zero(t, store.listCalls, "no remote call after validation failure")
	assert.Empty(t, store.uploaded)
}

func TestUpload_UnresolvedBucket(t *testing.T) {
	store := &fakeStore{buckets: []string{"backups"}}
	svc := testService(store, nil)

	res := svc.Upload(context.Background(), 7, "a.png", "image/png", 10, strings.NewReader("x"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no suitable storage bucket")
	assert.Empty(t, store.uploaded)
}

func TestUpload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		uploadErr error
		want      string
	}{
		{"typed duplicate", ErrDuplicateObject, "file already exists"},
		{"duplicate by message", errors.New("The resource already exists"), "file already exists"},
		{"size by message", errors.New("payload size too large"), "file size exceeds limit"},
		{"type by message", errors.New("mime type not permitted"), "file type not allowed"},
		{"bucket by message", errors.New("bucket is gone"), "storage bucket unavailable"},
		{"generic", errors.New("tls handshake timeout"), "upload failed: tls handshake timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{buckets: []string{"product-photos"}, uploadErr: tt.uploadErr}
			svc := testService(store, nil)

			res := svc.Upload(context.Background(), 7, "a.png", "image/png", 10, strings.NewReader("x"))

			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.want)
		})
	}
}

func TestUpload_EmptyPublicURL(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}, emptyURL: true}
	svc := testService(store, nil)

	res := svc.Upload(context.Background(), 7, "a.png", "image/png", 10, strings.NewReader("x"))

	assert.False(t, res.Success)
	assert.Equal(t, ErrURLGeneration.Error(), res.Error)
}

func TestUpload_MissingOwnerPanics(t *testing.T) {
	svc := testService(&fakeStore{buckets: []string{"product-photos"}}, nil)

	assert.Panics(t, func() {
		svc.Upload(context.Background(), 0, "a.png", "image/png", 10, strings.NewReader("x"))
	})
}

func TestDelete_RemovesOwnerScopedKey(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	svc := testService(store, nil)

	res := svc.Delete(context.Background(), 7, "https://storage.example.com/product-photos/7/1700000000-abc.jpg")

	assert.True(t, res.Removed)
	assert.NoError(t, res.Err)
	require.Len(t, store.removed, 1)
	assert.Equal(t, "7/1700000000-abc.jpg", store.removed[0])
}

func TestDelete_NeverFailsTheCaller(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
		url   string
	}{
		{"empty url", &fakeStore{buckets: []string{"product-photos"}}, ""},
		{"unresolved bucket", &fakeStore{buckets: []string{"backups"}}, "https://x/p/7/a.jpg"},
		{"remove error", &fakeStore{buckets: []string{"product-photos"}, removeErr: errors.New("object not found")}, "https://x/p/7/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testService(tt.store, nil)

			// The result is returned, never panicked or escalated; the Err
			// field is there for logs and tests, callers ignore it.
			res := svc.Delete(context.Background(), 7, tt.url)
			assert.False(t, res.Removed)
		})
	}
}

func TestCheckStatus(t *testing.T) {
	ok := testService(&fakeStore{buckets: []string{"product_photos"}}, nil).CheckStatus(context.Background())
	assert.True(t, ok.Available)
	assert.Equal(t, "product_photos", ok.BucketName)

	down := testService(&fakeStore{listErr: errors.New("boom")}, nil).CheckStatus(context.Background())
	assert.False(t, down.Available)
	assert.NotEmpty(t, down.Error)
}

func TestEnsureBucket_InvalidatesCache(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	svc := testService(store, nil)

	_, err := svc.resolver.Resolve(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.EnsureBucket(context.Background()))
	assert.Equal(t, []string{CanonicalBucket}, store.created)

	// Cache was dropped: next resolve lists again.
	before := store.listCalls
	_, err = svc.resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, store.listCalls)
}

func TestUpload_RecordsDebugSteps(t *testing.T) {
	store := &fakeStore{buckets: []string{"product-photos"}}
	debug := NewDebugLog(10)
	svc := testService(store, debug)

	res := svc.Upload(context.Background(), 7, "a.png", "image/png", 10, strings.NewReader("x"))
	require.True(t, res.Success)

	steps := make([]string, 0)
	for _, e := range debug.Entries() {
		steps = append(steps, e.Step)
	}
	assert.Equal(t, []string{"validate", "resolve_bucket", "upload", "public_url"}, steps)
}
