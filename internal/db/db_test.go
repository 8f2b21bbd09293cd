package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"documents", "facts", "audit_entries"} {
		var count int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestManualWeightMustBePositive(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(`INSERT INTO documents (id, type, manual_weight) VALUES ('x', 'cv', 0)`)
	if err == nil {
		t.Error("expected CHECK constraint to reject a zero manual weight")
	}
	_, err = d.Exec(`INSERT INTO documents (id, type) VALUES ('y', 'poem')`)
	if err == nil {
		t.Error("expected CHECK constraint to reject an unknown type")
	}
}

func TestOpenDirCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	d, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir() error: %v", err)
	}
	defer d.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("expected database file: %v", err)
	}
	if d.Path() != filepath.Join(dir, FileName) {
		t.Errorf("unexpected path %q", d.Path())
	}
}
