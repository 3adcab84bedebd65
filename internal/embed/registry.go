// Package embed manages the list of externally hosted video embeds shown in
// the gallery. Embeds reference YouTube or TikTok content; nothing is kept
// in the object store except the list document itself.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

// Key is the object-store key for the embeds document. Under config/ so it
// never shows up in gallery listings.
const Key = "config/embeds.json"

// ErrUnsupportedProvider is returned for URLs from any host other than the
// two supported providers.
var ErrUnsupportedProvider = errors.New("only YouTube and TikTok URLs are supported")

// Embed is one externally hosted video reference.
type Embed struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // "youtube" or "tiktok"
	CreatedAt time.Time `json:"createdAt"`
}

// ProviderOf returns "youtube" or "tiktok" for a supported embed URL, or
// ErrUnsupportedProvider.
func ProviderOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", ErrUnsupportedProvider
	}

	host := strings.ToLower(u.Host)
	switch {
	case hostMatches(host, "youtube.com"), hostMatches(host, "youtu.be"):
		return "youtube", nil
	case hostMatches(host, "tiktok.com"):
		return "tiktok", nil
	default:
		return "", ErrUnsupportedProvider
	}
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// Registry persists the embed list wholesale on every mutation. Last write
// wins, same single-admin caveat as the settings document.
type Registry struct {
	store storage.ObjectStore

	// now is swapped out in tests for deterministic IDs and timestamps.
	now func() time.Time
}

// NewRegistry creates a Registry backed by the object store.
func NewRegistry(store storage.ObjectStore) *Registry {
	return &Registry{store: store, now: time.Now}
}

// List returns all embeds, newest first. A missing document is an empty
// list, not an error.
func (r *Registry) List(ctx context.Context) ([]Embed, error) {
	data, err := r.store.Download(ctx, Key)
	if err != nil {
		if storage.IsNotFound(err) {
			return []Embed{}, nil
		}
		return nil, err
	}

	var embeds []Embed
	if err := json.Unmarshal(data, &embeds); err != nil {
		return nil, fmt.Errorf("parse embeds document: %w", err)
	}
	return embeds, nil
}

// Add validates the URL, derives the provider, and prepends the new embed.
// Newest-first ordering is the contract: the gallery relies on list order,
// not a separate sort.
func (r *Registry) Add(ctx context.Context, rawURL string) (Embed, error) {
	provider, err := ProviderOf(rawURL)
	if err != nil {
		return Embed{}, err
	}

	embeds, err := r.List(ctx)
	if err != nil {
		return Embed{}, err
	}

	now := r.now()
	title := "YouTube Video"
	if provider == "tiktok" {
		title = "TikTok Video"
	}
	e := Embed{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		URL:       rawURL,
		Title:     title,
		Type:      provider,
		CreatedAt: now,
	}

	embeds = append([]Embed{e}, embeds...)
	if err := r.save(ctx, embeds); err != nil {
		return Embed{}, err
	}
	return e, nil
}

// Remove filters out the embed with the given id. Removing an unknown id is
// a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	embeds, err := r.List(ctx)
	if err != nil {
		return err
	}

	filtered := embeds[:0]
	for _, e := range embeds {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	return r.save(ctx, filtered)
}

func (r *Registry) save(ctx context.Context, embeds []Embed) error {
	data, err := json.MarshalIndent(embeds, "", "  ")
	if err != nil {
		return err
	}
	return r.store.Upload(ctx, Key, bytes.NewReader(data), int64(len(data)), "application/json")
}
