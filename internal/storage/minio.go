package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// uploadURLTTL bounds how long a signed upload URL stays valid. Kept
	// short: the client requests it immediately before the PUT.
	uploadURLTTL = 5 * time.Minute
	// downloadURLTTL matches the client-side cache lifetime declared on
	// the response, so the URL never outlives its own cache entry.
	downloadURLTTL = 24 * time.Hour
)

// MinioStorage implements ObjectStore using a MinIO client, which speaks to
// any S3-compatible backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	region     string
	publicBase string
}

// NewMinioStorage creates the client, ensures the bucket exists, and
// returns a ready-to-use MinioStorage.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, region, publicBase string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		region:     region,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// List returns every object in the bucket.
func (s *MinioStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, &Error{Op: "list", Err: obj.Err}
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// Upload streams reader to the store under key. size must be the exact byte
// count (pass -1 only if the size is genuinely unknown).
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}
	return nil
}

// Download reads the whole object at key.
func (s *MinioStorage) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &Error{Op: "download", Key: key, Err: err}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("download %q: %w", key, ErrNotFound)
		}
		return nil, &Error{Op: "download", Key: key, Err: err}
	}
	return data, nil
}

// Delete removes the object at key. S3 treats deleting an absent key as
// success, which gives us idempotency for free.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// PresignUpload returns a signed PUT URL bound to the given content type.
// The eventual PUT must send exactly this Content-Type header or the
// signature is invalid.
func (s *MinioStorage) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, uploadURLTTL, url.Values{}, headers)
	if err != nil {
		return "", &Error{Op: "presign upload", Key: key, Err: err}
	}
	return u.String(), nil
}

// PresignDownload returns a signed GET URL. The response declares a long
// client-side cache lifetime since the URL itself is already time-boxed.
func (s *MinioStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	params := url.Values{}
	params.Set("response-cache-control", "public, max-age=86400, immutable")

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, downloadURLTTL, params)
	if err != nil {
		return "", &Error{Op: "presign download", Key: key, Err: err}
	}
	return u.String(), nil
}

// PublicURLFor returns the unsigned browser-accessible URL for the key.
// A configured CDN base takes precedence over the S3 virtual-hosted form.
func (s *MinioStorage) PublicURLFor(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return PublicURL(s.bucket, s.region, key)
}

// IsNotFound reports whether err indicates a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
