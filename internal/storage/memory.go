package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore is an in-memory ObjectStore. It backs tests and local
// development without a running MinIO; signed URLs carry a fake signature
// but follow the real URL shape.
type MemoryStore struct {
	bucket string
	region string

	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemoryStore creates an empty MemoryStore for the given bucket/region.
func NewMemoryStore(bucket, region string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		region:  region,
		objects: make(map[string]memObject),
	}
}

// List returns all stored objects.
func (s *MemoryStore) List(ctx context.Context) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	return objects, nil
}

// Upload stores the object, overwriting any existing one.
func (s *MemoryStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{data: data, contentType: contentType, lastModified: time.Now()}
	return nil
}

// Download reads the stored object.
func (s *MemoryStore) Download(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("download %q: %w", key, ErrNotFound)
	}
	return obj.data, nil
}

// Delete removes the object. Deleting an absent key succeeds.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// PresignUpload returns a fake but correctly shaped signed PUT URL.
func (s *MemoryStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	return s.signedURL(key), nil
}

// PresignDownload returns a fake but correctly shaped signed GET URL.
func (s *MemoryStore) PresignDownload(ctx context.Context, key string) (string, error) {
	return s.signedURL(key), nil
}

// PublicURLFor returns the unsigned URL for the key.
func (s *MemoryStore) PublicURLFor(key string) string {
	return PublicURL(s.bucket, s.region, key)
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *MemoryStore) signedURL(key string) string {
	return PublicURL(s.bucket, s.region, key) + "?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Signature=memory"
}
