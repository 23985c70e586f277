package photos

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements ObjectStore against any S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client

	// publicBaseURL overrides the endpoint when building public object URLs,
	// for deployments serving objects through a CDN or a separate host.
	publicBaseURL string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, publicBaseURL string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinioStore{client: client, publicBaseURL: publicBaseURL}, nil
}

func (m *MinioStore) ListBuckets(ctx context.Context) ([]string, error) {
	buckets, err := m.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	return names, nil
}

func (m *MinioStore) CreateBucket(ctx context.Context, bucket string) error {
	err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("make bucket: %w", err)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, bucket)
	if err := m.client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}

func (m *MinioStore) Upload(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	// S3 has no native no-overwrite put; a stat-then-put check is the best
	// available approximation. Keys carry a random token, so the race window
	// is not a practical concern.
	_, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return ErrDuplicateObject
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey":
		// the key is free, proceed
	case "NoSuchBucket":
		return ErrBucketUnavailable
	default:
		return fmt.Errorf("stat object: %w", err)
	}

	_, err = m.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchBucket" {
			return ErrBucketUnavailable
		}
		if minio.ToErrorResponse(err).Code == "EntityTooLarge" {
			return ErrSizeExceeded
		}
		return fmt.Errorf("put object: %w", err)
	}

	return nil
}

func (m *MinioStore) Remove(ctx context.Context, bucket string, keys []string) error {
	for _, key := range keys {
		if err := m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				continue
			}
			return fmt.Errorf("remove object %s: %w", key, err)
		}
	}
	return nil
}

func (m *MinioStore) PublicURL(bucket, key string) (string, error) {
	base := m.publicBaseURL
	if base == "" {
		base = m.client.EndpointURL().String()
	}
	if bucket == "" || key == "" {
		return "", fmt.Errorf("public url: empty bucket or key")
	}
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key, nil
}
