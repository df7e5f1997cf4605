// Package storage stores uploaded document files in object storage. S3, GCS,
// and MinIO backends sit behind one interface chosen by configuration.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner indicates signed URL credentials are not configured.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage defines the object operations the portal needs. Listing is not here
// on purpose; document inventories live in the database.
type Storage interface {
	io.Closer

	// Put stores the object and returns its metadata.
	Put(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// Get opens the object for reading.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns object metadata without reading the body.
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// Delete removes the object.
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the content length when known, -1 otherwise.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
