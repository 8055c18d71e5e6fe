// Package storage abstracts object storage for uploaded assets (article
// cover images, avatars). S3 covers production; MinIO covers local and
// self-hosted deployments.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the object-store surface the service uses.
type Storage interface {
	io.Closer

	// PutObject stores data under bucket/key and returns its metadata.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// GetObject opens the object for reading along with its metadata.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// StatObject returns metadata without reading the body.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// DeleteObject removes the object.
	DeleteObject(ctx context.Context, bucket, key string) error
	// ListObjects lists up to limit objects under prefix; limit <= 0 means all.
	ListObjects(ctx context.Context, bucket, prefix string, limit int32) ([]ObjectInfo, error)
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the expected content length; some backends require it.
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
