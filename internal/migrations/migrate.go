package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	// DefaultDir is where the server looks for migration files.
	DefaultDir = "migrations"

	metadataTable = "schema_migrations_migrate"
	// anchorTable is created by the first migration; its presence without
	// migrate metadata means the schema was applied by hand.
	anchorTable = "runs"
)

// ErrDirty is returned when a previous migration failed half way and the
// schema needs manual repair before it can move again.
var ErrDirty = errors.New("database schema is dirty")

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_`)

// RunMigrations applies every pending up migration found in dir. A database
// that already holds the schema but has no migrate metadata is first
// baselined to the latest version on disk.
func RunMigrations(databaseURL, dir string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if dir == "" {
		dir = DefaultDir
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: metadataTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := baseline(sqlDB, m, dir); err != nil {
		return err
	}

	if _, dirty, verr := m.Version(); verr == nil && dirty {
		return ErrDirty
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	v, _, verr := m.Version()
	switch {
	case errors.Is(verr, migrate.ErrNilVersion):
		log.Printf("[MIGRATE] No migrations in %s", dir)
	case verr != nil:
		log.Printf("[MIGRATE] Migrations applied; version unknown: %v", verr)
	default:
		log.Printf("[MIGRATE] Schema at version %d", v)
	}
	return nil
}

func baseline(sqlDB *sql.DB, m *migrate.Migrate, dir string) error {
	hasSchema, err := tableExists(sqlDB, anchorTable)
	if err != nil || !hasSchema {
		return nil
	}
	hasMetadata, err := tableExists(sqlDB, metadataTable)
	if err != nil || hasMetadata {
		return nil
	}

	latest := findLatestMigrationVersion(dir)
	if latest == 0 {
		return nil
	}
	log.Printf("[MIGRATE] Baseline DB to version %d (existing schema present)", latest)
	if err := m.Force(int(latest)); err != nil {
		return fmt.Errorf("baseline to version %d: %w", latest, err)
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)`, name).Scan(&exists)
	return exists, err
}

// findLatestMigrationVersion returns the highest numeric version prefix
// (e.g. 000001_) among the files in dir, or 0 when there are none.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var latest int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		match := versionPrefix.FindStringSubmatch(f.Name())
		if len(match) < 2 {
			continue
		}
		v, err := strconv.ParseInt(match[1], 10, 64)
		if err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
