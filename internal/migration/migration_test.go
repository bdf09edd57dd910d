package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestNewRunner_UnsupportedDriver(t *testing.T) {
	_, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql"))
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		want     []int
		errMatch string
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"002_streaks.sql": "SELECT 1;",
				"001_init.sql":    "SELECT 1;",
				"README.md":       "ignored",
			},
			want: []int{1, 2},
		},
		{
			name:     "missing underscore",
			files:    map[string]string{"001.sql": "SELECT 1;"},
			errMatch: "invalid migration filename",
		},
		{
			name:     "non-numeric version",
			files:    map[string]string{"abc_init.sql": "SELECT 1;"},
			errMatch: "invalid version number",
		},
		{
			name:     "zero version",
			files:    map[string]string{"000_init.sql": "SELECT 1;"},
			errMatch: "must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_init.sql":  "SELECT 1;",
				"0001_also.sql": "SELECT 1;",
			},
			errMatch: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRunner(nil, migrationsFS(tt.files), DriverSQLite)
			if err != nil {
				t.Fatalf("NewRunner: %v", err)
			}
			got, err := r.ReadMigrationFiles()
			if tt.errMatch != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errMatch) {
					t.Fatalf("expected error containing %q, got %v", tt.errMatch, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Version != tt.want[i] {
					t.Errorf("migration %d version = %d, want %d", i, m.Version, tt.want[i])
				}
			}
			if got[0].Name != "init" {
				t.Errorf("Name = %q, want init", got[0].Name)
			}
		})
	}
}

func TestApplyMigrations_SQLite(t *testing.T) {
	db := openSQLite(t)
	files := migrationsFS(map[string]string{
		"001_init.sql":    "CREATE TABLE entries (date TEXT PRIMARY KEY);",
		"002_streaks.sql": "CREATE TABLE streak (id INTEGER PRIMARY KEY, current INTEGER);",
	})

	r, err := NewRunner(db, files, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	var logs []string
	count, err := r.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	if count != 2 {
		t.Errorf("applied %d, want 2", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := r.GetCurrentVersion()
	if err != nil || version != 2 {
		t.Errorf("GetCurrentVersion() = %d, %v; want 2", version, err)
	}

	count, err = r.ApplyMigrations(nil)
	if err != nil || count != 0 {
		t.Errorf("second ApplyMigrations() = %d, %v; want 0, nil", count, err)
	}
}

func TestApplyMigrations_RollbackOnError(t *testing.T) {
	db := openSQLite(t)
	files := migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE entries (date TEXT PRIMARY KEY);",
		"002_bad.sql":  "CREATE TABLE streak (id INTEGER); THIS IS NOT SQL;",
	})

	r, err := NewRunner(db, files, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	count, err := r.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from invalid migration")
	}
	if count != 1 {
		t.Errorf("applied %d before failure, want 1", count)
	}

	version, err := r.GetCurrentVersion()
	if err != nil || version != 1 {
		t.Errorf("GetCurrentVersion() = %d, %v; want 1", version, err)
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := openSQLite(t)
	files := migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE entries (date TEXT PRIMARY KEY);",
	})

	r, err := NewRunner(db, files, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if err := r.SetVersion(5); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}

	if err := r.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v, want newer schema error", err)
	}
	if _, err := r.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations() should refuse a newer schema")
	}
}
