package reviews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
)

// ObjectGetter fetches object bodies from an S3-compatible store.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// ObjectLoader reads a corpus from s3://bucket/key locations.
type ObjectLoader struct {
	getter ObjectGetter
	logger *slog.Logger
}

// NewObjectLoader wraps an object getter.
func NewObjectLoader(getter ObjectGetter, logger *slog.Logger) *ObjectLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectLoader{getter: getter, logger: logger.With("component", "reviews.object")}
}

// Load downloads and parses the object named by location.
func (l *ObjectLoader) Load(ctx context.Context, location string) (assistant.ReviewCorpus, error) {
	bucket, key, err := ParseObjectURL(location)
	if err != nil {
		return assistant.ReviewCorpus{}, err
	}
	body, err := l.getter.GetObject(ctx, bucket, key)
	if err != nil {
		return assistant.ReviewCorpus{}, fmt.Errorf("get review corpus %s: %w", location, err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return assistant.ReviewCorpus{}, fmt.Errorf("read review corpus %s: %w", location, err)
	}
	l.logger.Debug("review corpus downloaded", "bucket", bucket, "key", key, "bytes", len(data))
	return Decode(key, data)
}

// ParseObjectURL splits s3://bucket/key.
func ParseObjectURL(location string) (string, string, error) {
	rest, ok := strings.CutPrefix(location, objectScheme)
	if !ok {
		return "", "", fmt.Errorf("review corpus %q is not an s3:// location", location)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("review corpus %q must name a bucket and key", location)
	}
	return bucket, key, nil
}

// MinioStore reads objects through the minio S3 client.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore builds an S3-compatible client; endpoint may carry an http(s) scheme.
func NewMinioStore(endpoint, accessKey, secretKey, region string) (*MinioStore, error) {
	useSSL := !strings.HasPrefix(strings.ToLower(endpoint), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// GetObject returns the object body after confirming it exists.
func (s *MinioStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, statErr := obj.Stat(); statErr != nil {
		_ = obj.Close()
		return nil, statErr
	}
	return obj, nil
}

func sanitizeEndpoint(endpoint string) string {
	e := strings.TrimSpace(endpoint)
	e = strings.TrimPrefix(e, "https://")
	e = strings.TrimPrefix(e, "http://")
	return strings.TrimSuffix(e, "/")
}
