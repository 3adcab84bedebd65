package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare key passes through",
			in:   "bruno/1700000000-photo.jpg",
			want: "bruno/1700000000-photo.jpg",
		},
		{
			name: "public url",
			in:   "https://fanmedia.s3.ap-southeast-1.amazonaws.com/bruno/1700000000-photo.jpg",
			want: "bruno/1700000000-photo.jpg",
		},
		{
			name: "signed url drops query string",
			in:   "https://fanmedia.s3.ap-southeast-1.amazonaws.com/homepage/hero-1700000000.mp4?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Signature=abc",
			want: "homepage/hero-1700000000.mp4",
		},
		{
			name: "percent-encoded key decoded exactly once",
			in:   "https://fanmedia.s3.us-east-1.amazonaws.com/bruno/my%20photo.jpg",
			want: "bruno/my photo.jpg",
		},
		{
			name: "double-encoded key decoded exactly once",
			in:   "https://fanmedia.s3.us-east-1.amazonaws.com/bruno/my%2520photo.jpg",
			want: "bruno/my%20photo.jpg",
		},
		{
			name: "non-storage url passes through",
			in:   "https://example.com/some/image.jpg",
			want: "https://example.com/some/image.jpg",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
		{
			name: "site-relative asset path passes through",
			in:   "/images/old-trafford-hero.jpg",
			want: "/images/old-trafford-hero.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKey(tt.in))
		})
	}
}

func TestExtractKeyRoundTrip(t *testing.T) {
	keys := []string{
		"bruno/1700000000-photo.jpg",
		"video.mp4",
		"homepage/hero-1700000000.webp",
		"a/b/c/deep.png",
	}
	for _, key := range keys {
		url := PublicURL("fanmedia", "ap-southeast-1", key)
		assert.Equal(t, key, ExtractKey(url), "round trip for %q", key)
	}
}

func TestIsSignedURL(t *testing.T) {
	assert.True(t, IsSignedURL("https://b.s3.r.amazonaws.com/k?X-Amz-Algorithm=AWS4-HMAC-SHA256"))
	assert.True(t, IsSignedURL("https://b.s3.r.amazonaws.com/k?X-Amz-Signature=abc"))
	assert.False(t, IsSignedURL("https://b.s3.r.amazonaws.com/k"))
	assert.False(t, IsSignedURL("bruno/photo.jpg"))
}

func TestIsStorageURL(t *testing.T) {
	assert.True(t, IsStorageURL("https://fanmedia.s3.ap-southeast-1.amazonaws.com/k.jpg"))
	assert.False(t, IsStorageURL("https://example.com/k.jpg"))
	assert.False(t, IsStorageURL("bruno/photo.jpg"))
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("fanmedia", "ap-southeast-1", "bruno/photo.jpg")
	assert.Equal(t, "https://fanmedia.s3.ap-southeast-1.amazonaws.com/bruno/photo.jpg", got)
}
