// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO,
// AWS S3).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one stored object. The key is the only durable
// reference to it; URLs are derived on demand.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ObjectStore is the interface for the remote object store. All remote I/O
// lives behind it; callers decide their own retry and degradation policy.
type ObjectStore interface {
	// List returns every object in the bucket. Callers filter by prefix.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Upload writes the object under key, overwriting any existing object.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Download reads the whole object. Returns ErrNotFound when absent.
	Download(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object. Deleting a nonexistent key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignUpload returns a short-lived URL granting a single PUT; the
	// PUT must carry exactly the contentType signed here.
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	// PresignDownload returns a time-limited read URL for the key.
	PresignDownload(ctx context.Context, key string) (string, error)
	// PublicURLFor constructs the browser-accessible unsigned URL for a key.
	PublicURLFor(key string) string
}

// Error wraps a failed storage operation with the operation name and key.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
