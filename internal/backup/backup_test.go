package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE entries (date TEXT PRIMARY KEY, notes TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO entries (date, notes) VALUES ('2025-10-14', 'a'), ('2025-10-15', 'b')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countEntries(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		t.Fatalf("failed to count entries in %s: %v", path, err)
	}
	return n
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(path), mgr.Dir())
	}
	if got := countEntries(t, path); got != 2 {
		t.Errorf("backup has %d entries, want 2", got)
	}
}

func TestCreate_NoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() error = %v, want ErrNoDatabase", err)
	}
}

func TestCreate_SameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	frozen := time.Date(2025, 10, 15, 20, 0, 0, 0, time.Local)
	mgr.clock = func() time.Time { return frozen }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups, want 3", len(backups))
	}
	if filepath.Base(backups[0].Path) != "tally-20251015-200000-2.db" {
		t.Errorf("newest backup = %s, want the -2 counter file", filepath.Base(backups[0].Path))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.clock = fixedClock(time.Date(2025, 10, 1, 8, 0, 0, 0, time.Local))

	var last string
	for i := 0; i < 16; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		last = p
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 14 {
		t.Errorf("kept %d backups, want 14", len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if backups, err := mgr.List(); err != nil || len(backups) != 0 {
		t.Fatalf("List() before any backup = %v, %v", backups, err)
	}

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "tally-latest.db", "tally-20251015-200000-x.db", "other-20251015-200000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mgr.Create(); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("List() = %+v, want only the real backup", backups)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.clock = fixedClock(time.Date(2025, 10, 15, 8, 0, 0, 0, time.Local))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM entries"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if previous == "" {
		t.Fatal("Restore() did not back up the current database")
	}
	if got := countEntries(t, dbPath); got != 2 {
		t.Errorf("restored database has %d entries, want 2", got)
	}
	if got := countEntries(t, previous); got != 0 {
		t.Errorf("pre-restore backup has %d entries, want 0", got)
	}
}

func TestRestore_Invalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore() of a missing file succeeded")
	}

	garbage := filepath.Join(t.TempDir(), "tally-20251015-080000.db")
	if err := os.WriteFile(garbage, []byte("this is not a database file at all, just text"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(garbage); err == nil {
		t.Error("Restore() of a corrupt file succeeded")
	}
	if got := countEntries(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore: %d entries", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantSeq int
		wantOK  bool
	}{
		{"tally-20251015-200000.db", 0, true},
		{"tally-20251015-200000-3.db", 3, true},
		{"tally-20251015-200000-0.db", 0, false},
		{"tally-20251015-2000.db", 0, false},
		{"tally-20251015-200000.json", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, seq, ok := parseName(tt.name)
			if ok != tt.wantOK || seq != tt.wantSeq {
				t.Errorf("parseName(%q) = %d, %v; want %d, %v", tt.name, seq, ok, tt.wantSeq, tt.wantOK)
			}
		})
	}
}
