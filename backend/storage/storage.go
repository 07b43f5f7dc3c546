// Package storage keeps uploaded course PDFs in a blob store.
package storage

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"strings"

	"eduquiz/backend/config"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound   = stderrors.New("object not found")
	ErrInvalidKey = stderrors.New("invalid object key")
)

// Blobs is an object store addressed by slash-separated keys.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (Blobs, error) {
	switch cfg.StorageBackend {
	case "minio":
		return NewMinio(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
	case "local", "":
		return NewLocal(cfg.StorageDir)
	default:
		return nil, errors.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

// CourseKey returns a fresh object key for a course PDF.
func CourseKey() string {
	return "courses/" + uuid.NewString() + ".pdf"
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, `\`) {
		return errors.Wrapf(ErrInvalidKey, "key %q", key)
	}
	return nil
}
