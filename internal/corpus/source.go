// Package corpus loads the professor catalog from static storage.
// When S3 is not configured (empty bucket), the catalog is read from a
// local CSV file, keeping the system in local-only mode.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/researchconnect/profscout/internal/config"
)

// Source provides the raw catalog bytes.
type Source interface {
	// Fetch returns the full catalog file contents.
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the catalog from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by a local file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the catalog file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return data, nil
}

// objectGetter defines the minimal minio.Client operation used by S3Source.
// This interface enables testing with mock implementations.
type objectGetter interface {
	GetObject(ctx context.Context, bucket, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// minioClientWrapper wraps *minio.Client to satisfy the objectGetter
// interface; minio.GetObject returns a concrete *minio.Object.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) GetObject(ctx context.Context, bucket, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return w.client.GetObject(ctx, bucket, objectName, opts)
}

// S3Source reads the catalog from S3-compatible storage.
type S3Source struct {
	client objectGetter
	bucket string
	object string
}

// Fetch downloads the catalog object.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get corpus object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read corpus object: %w", err)
	}
	return data, nil
}

// NewSource creates the appropriate Source based on configuration.
// Returns FileSource when bucket is empty, S3Source otherwise.
func NewSource(cfg config.CorpusConfig) (Source, error) {
	if cfg.Bucket == "" {
		return NewFileSource(cfg.Path), nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Source{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
		object: cfg.Object,
	}, nil
}
