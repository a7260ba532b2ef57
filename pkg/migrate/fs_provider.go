package migrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// migrationFile matches 001_create_tables.up.sql and 001_create_tables.down.sql
var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// FSProvider loads SQLite migrations from a directory of an fs.FS, typically
// an embed.FS compiled into the binary
type FSProvider struct {
	fsys           fs.FS
	dir            string
	migrationTable string
}

// NewFSProvider creates a migration provider reading dir within fsys
func NewFSProvider(fsys fs.FS, dir string, migrationTable string) *FSProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	return &FSProvider{
		fsys:           fsys,
		dir:            dir,
		migrationTable: migrationTable,
	}
}

// GetMigrations loads every migration under the provider's directory
func (p *FSProvider) GetMigrations() ([]Migration, error) {
	byVersion := make(map[int]*Migration)

	err := fs.WalkDir(p.fsys, p.dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matches := migrationFile.FindStringSubmatch(d.Name())
		if matches == nil {
			return nil
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid version number in file %s: %w", d.Name(), err)
		}
		content, err := fs.ReadFile(p.fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		mg := byVersion[version]
		if mg == nil {
			mg = &Migration{Version: version, Name: strings.ReplaceAll(matches[2], "_", " ")}
			byVersion[version] = mg
		}
		if matches[3] == "up" {
			mg.Up = string(content)
		} else {
			mg.Down = string(content)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", path.Clean(p.dir), err)
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mg := range byVersion {
		migrations = append(migrations, *mg)
	}
	return migrations, nil
}

// CreateMigrationTable creates the migration tracking table
func (p *FSProvider) CreateMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, p.migrationTable)

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the highest applied migration version
func (p *FSProvider) GetCurrentVersion(db *sql.DB) (int, error) {
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", p.migrationTable)

	var version int
	if err := db.QueryRow(query).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion records version as the applied version. Rolling back drops the
// records above it.
func (p *FSProvider) SetVersion(db DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE version > ?", p.migrationTable), version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	if version == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (version, applied_at)
		VALUES (?, CURRENT_TIMESTAMP)
	`, p.migrationTable)
	if _, err := db.Exec(query, version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}
