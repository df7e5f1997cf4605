package storage

import (
	"context"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSOptions configures the Google Cloud Storage backend. Signing credentials
// are optional; without them PresignGet returns ErrMissingSigner.
type GCSOptions struct {
	// Client reuses an existing GCS client.
	Client *gcs.Client

	GoogleAccessID string
	PrivateKey     []byte
}

// GCSClient implements Storage on Google Cloud Storage.
type GCSClient struct {
	client         *gcs.Client
	googleAccessID string
	privateKey     []byte
}

// NewGCS builds a GCS client using ambient credentials unless one is given.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSClient, error) {
	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}

	return &GCSClient{
		client:         client,
		googleAccessID: opts.GoogleAccessID,
		privateKey:     opts.PrivateKey,
	}, nil
}

func (c *GCSClient) Put(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	writer := c.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if opts.ContentType != "" {
		writer.ContentType = opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		writer.Metadata = opts.Metadata
	}

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return ObjectInfo{}, err
	}
	if err := writer.Close(); err != nil {
		return ObjectInfo{}, err
	}

	if attrs := writer.Attrs(); attrs != nil {
		return gcsAttrsToInfo(attrs), nil
	}

	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        opts.Size,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
	}, nil
}

func (c *GCSClient) Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	obj := c.client.Bucket(bucket).Object(key)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		_ = reader.Close()
		return nil, ObjectInfo{}, err
	}

	return reader, gcsAttrsToInfo(attrs), nil
}

func (c *GCSClient) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	attrs, err := c.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}

	return gcsAttrsToInfo(attrs), nil
}

func (c *GCSClient) Delete(ctx context.Context, bucket, key string) error {
	return c.client.Bucket(bucket).Object(key).Delete(ctx)
}

func (c *GCSClient) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if c.googleAccessID == "" || len(c.privateKey) == 0 {
		return "", ErrMissingSigner
	}

	return gcs.SignedURL(bucket, key, &gcs.SignedURLOptions{
		Method:         "GET",
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: c.googleAccessID,
		PrivateKey:     c.privateKey,
	})
}

func (c *GCSClient) Close() error {
	return c.client.Close()
}

func gcsAttrsToInfo(attrs *gcs.ObjectAttrs) ObjectInfo {
	return ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		UpdatedAt:   attrs.Updated,
	}
}
