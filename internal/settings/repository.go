package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"log"

	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

// Key is the fixed object-store key for the settings document. The config/
// prefix keeps it out of gallery listings.
const Key = "config/homepage.json"

// Repository persists the settings document. The backend is swappable;
// production uses the object store.
type Repository interface {
	// Load returns the current document, migrated to key-form media
	// fields. It never fails: a missing or unreadable document yields the
	// defaults.
	Load(ctx context.Context) Settings
	// Save overwrites the document wholesale. No field-level merge: a
	// partial payload erases unspecified fields, so callers must always
	// submit the full document. Last write wins; the single-admin
	// deployment makes that acceptable.
	Save(ctx context.Context, s Settings) error
}

// StoreRepository keeps the settings document in the object store.
type StoreRepository struct {
	store storage.ObjectStore
}

// NewStoreRepository creates a StoreRepository.
func NewStoreRepository(store storage.ObjectStore) *StoreRepository {
	return &StoreRepository{store: store}
}

// Load reads and migrates the settings document. When migration changed the
// document, the migrated form is written back so subsequent reads are
// cheaper and consistent. A failed writeback is logged and the migrated
// in-memory value is still returned — returning stale-format data would be
// observable and wrong even if persistence failed.
func (r *StoreRepository) Load(ctx context.Context) Settings {
	data, err := r.store.Download(ctx, Key)
	if err != nil {
		if !storage.IsNotFound(err) {
			log.Printf("settings: load failed, using defaults: %v", err)
		}
		return Defaults()
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("settings: unparsable document, using defaults: %v", err)
		return Defaults()
	}

	migrated := Migrate(s)
	if migrated != s {
		if err := r.Save(ctx, migrated); err != nil {
			log.Printf("settings: migration writeback failed: %v", err)
		}
	}
	return migrated
}

// Save overwrites the settings document.
func (r *StoreRepository) Save(ctx context.Context, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return r.store.Upload(ctx, Key, bytes.NewReader(data), int64(len(data)), "application/json")
}
