package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "tally.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Provider(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestStore_LoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	tmpl, err := store.GetTemplate()
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	tmpl.Sections = tmpl.Sections[:1]
	if err := store.SaveTemplate(tmpl); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetTemplate()
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if len(got.Sections) != 1 {
		t.Errorf("got %d sections after reopen, want 1", len(got.Sections))
	}

	// a second Init must not reset the template
	if err := reopened.Init(); err != nil {
		t.Fatalf("Init (again): %v", err)
	}
	got, _ = reopened.GetTemplate()
	if len(got.Sections) != 1 {
		t.Errorf("re-init reset the template to %d sections", len(got.Sections))
	}
}

func TestStore_SchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if current != latest || latest < 2 {
		t.Errorf("SchemaVersion() = %d/%d, want fully migrated", current, latest)
	}

	applied, err := store.Migrate(nil)
	if err != nil || applied != 0 {
		t.Errorf("Migrate() = %d, %v; want 0, nil", applied, err)
	}
}
