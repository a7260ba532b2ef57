package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

var testMigrations = fstest.MapFS{
	"sql/001_create_runs.up.sql":   {Data: []byte("CREATE TABLE runs (id TEXT PRIMARY KEY);")},
	"sql/001_create_runs.down.sql": {Data: []byte("DROP TABLE runs;")},
	"sql/002_add_label.up.sql":     {Data: []byte("ALTER TABLE runs ADD COLUMN label TEXT;")},
	"sql/002_add_label.down.sql":   {Data: []byte("ALTER TABLE runs DROP COLUMN label;")},
	"sql/README.md":                {Data: []byte("ignored")},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFSProviderGetMigrations(t *testing.T) {
	migrations, err := NewFSProvider(testMigrations, "sql", "").GetMigrations()
	if err != nil {
		t.Fatalf("GetMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, expected 2", len(migrations))
	}
	for _, mg := range migrations {
		if mg.Up == "" || mg.Down == "" {
			t.Errorf("migration %d is missing a direction: %+v", mg.Version, mg)
		}
		if mg.Version == 1 && mg.Name != "create runs" {
			t.Errorf("name = %q", mg.Name)
		}
	}
}

func TestMigrateUpAndDown(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testMigrations, "sql", ""), nil)

	pending, err := m.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, expected 2", len(pending))
	}

	if err := m.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if v, _ := m.CurrentVersion(); v != 2 {
		t.Errorf("version = %d, expected 2", v)
	}
	if _, err := db.Exec("INSERT INTO runs (id, label) VALUES ('a', 'b')"); err != nil {
		t.Errorf("schema not applied: %v", err)
	}

	// Running again is a no-op
	if err := m.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}

	if err := m.MigrateTo(1); err != nil {
		t.Fatalf("MigrateTo(1): %v", err)
	}
	if v, _ := m.CurrentVersion(); v != 1 {
		t.Errorf("version = %d, expected 1", v)
	}
	if _, err := db.Exec("INSERT INTO runs (id, label) VALUES ('c', 'd')"); err == nil {
		t.Error("label column survived the rollback")
	}

	if err := m.MigrateTo(0); err != nil {
		t.Fatalf("MigrateTo(0): %v", err)
	}
	if v, _ := m.CurrentVersion(); v != 0 {
		t.Errorf("version = %d, expected 0", v)
	}
}

func TestMigrateMissingDirectory(t *testing.T) {
	m := NewMigrator(openDB(t), NewFSProvider(testMigrations, "nope", ""), nil)
	if err := m.MigrateUp(); err == nil {
		t.Error("expected an error for a missing migration directory")
	}
}
