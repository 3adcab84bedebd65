package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUploadDownload(t *testing.T) {
	s := NewMemoryStore("fanmedia", "ap-southeast-1")
	ctx := context.Background()

	err := s.Upload(ctx, "bruno/photo.jpg", strings.NewReader("bytes"), 5, "image/jpeg")
	require.NoError(t, err)

	data, err := s.Download(ctx, "bruno/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))

	objects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "bruno/photo.jpg", objects[0].Key)
	assert.Equal(t, int64(5), objects[0].Size)
}

func TestMemoryStoreDownloadMissing(t *testing.T) {
	s := NewMemoryStore("fanmedia", "ap-southeast-1")

	_, err := s.Download(context.Background(), "nope.jpg")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore("fanmedia", "ap-southeast-1")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "k.jpg", strings.NewReader("x"), 1, "image/jpeg"))
	require.NoError(t, s.Delete(ctx, "k.jpg"))
	// Second delete of the same key must not raise.
	require.NoError(t, s.Delete(ctx, "k.jpg"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreSignedURLShape(t *testing.T) {
	s := NewMemoryStore("fanmedia", "ap-southeast-1")

	u, err := s.PresignDownload(context.Background(), "bruno/photo.jpg")
	require.NoError(t, err)
	assert.True(t, IsSignedURL(u))
	assert.Equal(t, "bruno/photo.jpg", ExtractKey(u))
}
