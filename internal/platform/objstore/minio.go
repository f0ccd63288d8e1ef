// Package objstore wraps MinIO-compatible object storage for image mirroring.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore is an object storage bucket for mirrored catalog images.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to object storage and makes sure bucket exists.
// publicURL is the externally visible base URL of the bucket.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey string, secure bool, bucket, publicURL string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("can't create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("can't check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("can't create bucket %q: %w", bucket, err)
		}
	}

	return &MinioStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// List returns the object names directly under folder, without the folder
// prefix.
func (s *MinioStore) List(ctx context.Context, folder string) ([]string, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"

	names := make([]string, 0)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("can't list folder %q: %w", folder, object.Err)
		}
		names = append(names, strings.TrimPrefix(object.Key, prefix))
	}

	return names, nil
}

// Upload stores data under objectPath with upsert semantics.
func (s *MinioStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("can't upload %q: %w", objectPath, err)
	}

	return nil
}

// PublicURL returns the externally visible URL of an object.
func (s *MinioStore) PublicURL(objectPath string) string {
	return s.publicURL + "/" + strings.TrimPrefix(objectPath, "/")
}

// GuessContentType derives a content type from the object name, falling back
// to the provided default and finally to application/octet-stream.
func GuessContentType(filename string, fallback string) string {
	if ext := path.Ext(filename); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return "application/octet-stream"
}
