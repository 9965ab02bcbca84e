package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// EvidenceStore presigns stored evidence object keys into short-lived GET
// URLs. Evidence objects are uploaded out of band; this service only ever
// reads them.
type EvidenceStore struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewEvidenceStore(client *minio.Client, bucket string) *EvidenceStore {
	return &EvidenceStore{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

func (s *EvidenceStore) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

func (s *EvidenceStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("evidence key is empty")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign evidence object: %w", err)
	}

	return signed.String(), nil
}
