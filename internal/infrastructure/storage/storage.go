// Package storage keeps rendered report artifacts on local disk or in
// Google Cloud Storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/sangkips/barberpos-api/internal/config"
	"google.golang.org/api/option"
)

// ErrNotFound is returned by Open when the reference does not exist
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore saves artifacts and opens them back by reference
type ArtifactStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// New builds the store selected by STORAGE_DRIVER
func New(ctx context.Context, cfg config.StorageConfig) (ArtifactStore, error) {
	switch cfg.Driver {
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
	case "", "local":
		return NewLocalStore(cfg.Path)
	}
	return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Driver)
}

const localScheme = "local://"

type localStore struct {
	dir string
}

// NewLocalStore stores artifacts as files under dir
func NewLocalStore(dir string) (ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return localScheme + name, nil
}

func (s *localStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if !strings.HasPrefix(ref, localScheme) {
		return nil, ErrNotFound
	}
	file, err := os.Open(filepath.Join(s.dir, filepath.Base(strings.TrimPrefix(ref, localScheme))))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return file, err
}

func (s *localStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, localScheme) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(strings.TrimPrefix(ref, localScheme))))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

const gcsPrefix = "reports"

type gcsStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore stores artifacts in bucket. Credentials come from credJSON
// when set, otherwise from Application Default Credentials.
func NewGCSStore(ctx context.Context, bucket, credJSON string) (ArtifactStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(credJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

func (s *gcsStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := path.Join(gcsPrefix, path.Base(name))
	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload artifact to gcs: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close gcs writer: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}

func (s *gcsStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	prefix := "gs://" + s.bucket + "/"
	if !strings.HasPrefix(ref, prefix) {
		return nil, ErrNotFound
	}
	rc, err := s.client.Bucket(s.bucket).Object(strings.TrimPrefix(ref, prefix)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	return rc, err
}

func (s *gcsStore) Delete(ctx context.Context, ref string) error {
	prefix := "gs://" + s.bucket + "/"
	if !strings.HasPrefix(ref, prefix) {
		return ErrNotFound
	}
	err := s.client.Bucket(s.bucket).Object(strings.TrimPrefix(ref, prefix)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}
