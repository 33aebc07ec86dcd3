package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shelfwise/backend-go/internal/config"
)

// MinioClient implements ObjectStorage against MinIO or any S3-compatible
// service.
type MinioClient struct {
	client *minio.Client
	bucket string
}

func NewMinioClient(cfg config.StorageConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioClient{client: client, bucket: cfg.Bucket}, nil
}

func (c *MinioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	results := []ObjectInfo{}
	for object := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		results = append(results, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return results, nil
}

func (c *MinioClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return object, nil
}

func (c *MinioClient) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*MinioClient)(nil)

// NoopStorage discards uploads; used when archival storage is disabled.
type NoopStorage struct{}

func (NoopStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return []ObjectInfo{}, nil
}

func (NoopStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("archival storage disabled")
}

func (NoopStorage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}

var _ ObjectStorage = NoopStorage{}
