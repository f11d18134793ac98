package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_init.up.sql", "000001_init.down.sql", "000003_extra.up.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000009_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := findLatestMigrationVersion(dir); got != 3 {
		t.Errorf("latest = %d, want 3", got)
	}
	if got := findLatestMigrationVersion(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("missing dir latest = %d, want 0", got)
	}
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	if got := findLatestMigrationVersion(filepath.Join("..", "..", DefaultDir)); got < 1 {
		t.Errorf("no migrations found in repository, latest = %d", got)
	}
}

func TestRunMigrationsEmptyURL(t *testing.T) {
	if err := RunMigrations("", ""); err == nil {
		t.Error("expected error for empty database URL")
	}
}
