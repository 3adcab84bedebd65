// Package media builds the browsable catalog of uploaded gallery files and
// issues the signed URLs used to upload, download, and delete them.
package media

import (
	"context"
	"fmt"
	"log"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

// Uncategorized is the category assigned to keys with no path prefix.
const Uncategorized = "uncategorized"

// excludedPrefixes are key prefixes that are not gallery content: the
// settings documents and the homepage media.
var excludedPrefixes = []string{"config/", "homepage/"}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".avi": true, ".mkv": true,
}

// Entry is one catalog item: the stored object plus its derived type and
// category and a freshly signed download URL.
type Entry struct {
	storage.ObjectInfo
	Type     string `json:"type"`
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`
}

// Category is a display grouping of catalog keys by their first path segment.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

// BatchResult aggregates per-item outcomes of a batched delete. A failure
// of one item never aborts the others.
type BatchResult struct {
	Deleted int      `json:"deleted"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// TypeOf classifies a key by extension, case-insensitively. Keys that are
// neither image nor video come back as "other"; the gallery UIs filter them.
func TypeOf(key string) string {
	ext := strings.ToLower(path.Ext(key))
	switch {
	case imageExts[ext]:
		return "image"
	case videoExts[ext]:
		return "video"
	default:
		return "other"
	}
}

// CategoryOf derives the display category: the first /-delimited path
// segment, or Uncategorized for root-level keys.
func CategoryOf(key string) string {
	if i := strings.IndexByte(key, '/'); i > 0 {
		return key[:i]
	}
	return Uncategorized
}

var categoryCleanup = regexp.MustCompile(`[^a-z0-9-]`)
var whitespace = regexp.MustCompile(`\s+`)

// NormalizeCategory turns a user-entered category name into its key-prefix
// form: lowercase, hyphen-separated, stripped of anything else.
func NormalizeCategory(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = whitespace.ReplaceAllString(n, "-")
	return categoryCleanup.ReplaceAllString(n, "")
}

// FormatCategoryName turns a key-prefix category into its display form by
// splitting on "-" and title-casing each word.
func FormatCategoryName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Service contains the catalog and signed-URL business logic.
type Service struct {
	store storage.ObjectStore
}

// NewService creates a new media Service.
func NewService(store storage.ObjectStore) *Service {
	return &Service{store: store}
}

// ListCatalog lists every gallery object, excluding the config and homepage
// prefixes, with type, category, and a fresh signed download URL attached.
// Signing is local cryptography against the credentials, not a per-key
// network round-trip, so doing it eagerly per entry is fine at this scale.
func (s *Service) ListCatalog(ctx context.Context) ([]Entry, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		if isExcluded(obj.Key) {
			continue
		}

		entry := Entry{
			ObjectInfo: obj,
			Type:       TypeOf(obj.Key),
			Category:   CategoryOf(obj.Key),
		}

		url, err := s.store.PresignDownload(ctx, obj.Key)
		if err != nil {
			// The entry is still listed; the UI can re-request a URL.
			log.Printf("media: presign failed for %q: %v", obj.Key, err)
		} else {
			entry.URL = url
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListCategories groups gallery keys by category, sorted by display name.
// CreatedAt is the modification time of the first object seen per category.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Category)
	for _, obj := range objects {
		if isExcluded(obj.Key) {
			continue
		}
		id := CategoryOf(obj.Key)
		if c, ok := byID[id]; ok {
			c.Count++
			continue
		}
		byID[id] = &Category{
			ID:        id,
			Name:      FormatCategoryName(id),
			Count:     1,
			CreatedAt: obj.LastModified,
		}
	}

	categories := make([]Category, 0, len(byID))
	for _, c := range byID {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// UploadKey builds the storage key for a new gallery upload:
// <category>/<epochMillis>-<fileName>, or just <epochMillis>-<fileName>
// when no category is given. The timestamp prefix keeps retried uploads
// from colliding with earlier ones.
func UploadKey(fileName, category string) string {
	base := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)
	if category == "" {
		return base
	}
	return category + "/" + base
}

// UploadURL issues a signed upload URL for a new gallery file and returns
// the final storage key alongside it.
func (s *Service) UploadURL(ctx context.Context, fileName, fileType, category string) (string, string, error) {
	key := UploadKey(fileName, NormalizeCategory(category))
	url, err := s.store.PresignUpload(ctx, key, fileType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// DownloadURL issues a signed download URL for an existing key.
func (s *Service) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.store.PresignDownload(ctx, key)
}

// Delete removes one object. Idempotent: deleting an already-deleted key
// succeeds.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// DeleteBatch deletes the given keys concurrently and reports aggregate
// per-item outcomes. One bad key must not abort the rest of the batch.
func (s *Service) DeleteBatch(ctx context.Context, keys []string) BatchResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result BatchResult
	)

	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			err := s.store.Delete(ctx, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
				return
			}
			result.Deleted++
		}(key)
	}

	wg.Wait()
	return result
}

func isExcluded(key string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
