package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the minimal S3-compatible operations the import
// pipeline needs: archive raw uploads and read them back.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}
