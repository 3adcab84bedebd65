package storage

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// storageURLPattern matches a virtual-hosted S3 object URL:
// https://<bucket>.s3.<region>.amazonaws.com/<key>[?querystring]
var storageURLPattern = regexp.MustCompile(`^https://([^.]+)\.s3\.([^.]+)\.amazonaws\.com/([^?]+)`)

// ExtractKey returns the storage key for an input that may be a bare key,
// a public object URL, or a signed URL. Bare keys and unrecognized strings
// pass through unchanged; signed-URL query strings are discarded. The key
// is percent-decoded exactly once.
//
// Every component that needs to turn a URL back into a key must go through
// this function; the matching logic lives nowhere else.
func ExtractKey(urlOrKey string) string {
	if urlOrKey == "" {
		return ""
	}
	if !strings.HasPrefix(urlOrKey, "http") {
		// Already a key.
		return urlOrKey
	}

	m := storageURLPattern.FindStringSubmatch(urlOrKey)
	if m == nil {
		// Not a storage URL; treat as opaque.
		return urlOrKey
	}

	key, err := url.PathUnescape(m[3])
	if err != nil {
		return m[3]
	}
	return key
}

// IsSignedURL reports whether the URL carries a presign signature.
func IsSignedURL(u string) bool {
	return strings.Contains(u, "X-Amz-Algorithm") || strings.Contains(u, "X-Amz-Signature")
}

// IsStorageURL reports whether the URL points at the object store at all,
// signed or not.
func IsStorageURL(u string) bool {
	return strings.Contains(u, ".s3.") && strings.Contains(u, ".amazonaws.com")
}

// PublicURL builds the long-lived unsigned URL for a key. Pure string
// templating; no network call and no signature.
func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
