package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "image", TypeOf("bruno/1700000000-photo.jpg"))
	assert.Equal(t, "image", TypeOf("SHOUT.PNG"))
	assert.Equal(t, "video", TypeOf("video.mp4"))
	assert.Equal(t, "video", TypeOf("match/highlights.MOV"))
	assert.Equal(t, "other", TypeOf("notes.txt"))
	assert.Equal(t, "other", TypeOf("no-extension"))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "bruno", CategoryOf("bruno/1700000000-photo.jpg"))
	assert.Equal(t, Uncategorized, CategoryOf("video.mp4"))
	assert.Equal(t, "match-day", CategoryOf("match-day/a/b.jpg"))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "match-day", NormalizeCategory("  Match Day "))
	assert.Equal(t, "behind-the-scenes", NormalizeCategory("Behind The Scenes"))
	assert.Equal(t, "trophies2024", NormalizeCategory("Trophies/2024!"))
	assert.Equal(t, "", NormalizeCategory("???"))
}

func TestFormatCategoryName(t *testing.T) {
	assert.Equal(t, "Behind The Scenes", FormatCategoryName("behind-the-scenes"))
	assert.Equal(t, "Bruno", FormatCategoryName("bruno"))
	assert.Equal(t, "Uncategorized", FormatCategoryName("uncategorized"))
}

func seedStore(t *testing.T, keys ...string) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore("fanmedia", "ap-southeast-1")
	for _, key := range keys {
		require.NoError(t, store.Upload(context.Background(), key, strings.NewReader("x"), 1, "application/octet-stream"))
	}
	return store
}

func TestListCatalog(t *testing.T) {
	store := seedStore(t,
		"bruno/1700000000-photo.jpg",
		"video.mp4",
		"config/homepage.json",
		"config/embeds.json",
		"homepage/hero-1700000000.webp",
	)
	svc := NewService(store)

	entries, err := svc.ListCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := map[string]Entry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}

	photo := byKey["bruno/1700000000-photo.jpg"]
	assert.Equal(t, "image", photo.Type)
	assert.Equal(t, "bruno", photo.Category)
	assert.True(t, storage.IsSignedURL(photo.URL))

	video := byKey["video.mp4"]
	assert.Equal(t, "video", video.Type)
	assert.Equal(t, Uncategorized, video.Category)
}

func TestListCategories(t *testing.T) {
	store := seedStore(t,
		"bruno/a.jpg",
		"bruno/b.jpg",
		"match-day/c.mp4",
		"root.png",
		"config/homepage.json",
		"homepage/hero.webp",
	)
	svc := NewService(store)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)

	// Sorted alphabetically by display name.
	assert.Equal(t, []string{"Bruno", "Match Day", "Uncategorized"},
		[]string{categories[0].Name, categories[1].Name, categories[2].Name})

	assert.Equal(t, "bruno", categories[0].ID)
	assert.Equal(t, 2, categories[0].Count)
	assert.Equal(t, 1, categories[1].Count)
	assert.Equal(t, 1, categories[2].Count)
}

func TestUploadKey(t *testing.T) {
	key := UploadKey("photo.jpg", "bruno")
	assert.True(t, strings.HasPrefix(key, "bruno/"))
	assert.True(t, strings.HasSuffix(key, "-photo.jpg"))

	rootKey := UploadKey("photo.jpg", "")
	assert.NotContains(t, rootKey, "/")
}

// failingDeleteStore fails deletes for specific keys so the batch path can
// be exercised for partial failure.
type failingDeleteStore struct {
	storage.ObjectStore
	failKeys map[string]bool
}

func (f *failingDeleteStore) Delete(ctx context.Context, key string) error {
	if f.failKeys[key] {
		return errors.New("delete refused")
	}
	return f.ObjectStore.Delete(ctx, key)
}

func TestDeleteBatchPartialFailure(t *testing.T) {
	store := seedStore(t, "a.jpg", "b.jpg", "c.jpg")
	failing := &failingDeleteStore{ObjectStore: store, failKeys: map[string]bool{"b.jpg": true}}
	svc := NewService(failing)

	result := svc.DeleteBatch(context.Background(), []string{"a.jpg", "b.jpg", "c.jpg"})

	// One bad key never aborts the others.
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "b.jpg")
	assert.Equal(t, 1, store.Len())
}

func TestDeleteIdempotent(t *testing.T) {
	store := seedStore(t, "a.jpg")
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "a.jpg"))
	require.NoError(t, svc.Delete(ctx, "a.jpg"))
}
