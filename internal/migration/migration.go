// Package migration applies the versioned SQL schema to Postgres.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

//go:embed sql/*.sql
var files embed.FS

// Migration is one numbered schema file, e.g. "0003_create_company_impacts.sql".
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrator handles database migrations
type Migrator struct {
	DB         *sql.DB
	migrations []Migration
}

// Open connects with the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// NewMigrator creates a migrator over the embedded schema files.
func NewMigrator(db *sql.DB) (*Migrator, error) {
	sub, err := fs.Sub(files, "sql")
	if err != nil {
		return nil, err
	}
	migrations, err := Load(sub)
	if err != nil {
		return nil, err
	}
	return &Migrator{DB: db, migrations: migrations}, nil
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return m.migrations
}

// InitializeSchema creates the version table if it doesn't exist
func (m *Migrator) InitializeSchema(ctx context.Context) error {
	_, err := m.DB.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`)
	return err
}

// CurrentVersion returns the highest applied version, 0 on a fresh database.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.DB.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	return version, err
}

// Pending returns the migrations newer than the applied version.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.InitializeSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	return After(m.migrations, current), nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the ones applied.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]Migration, 0, len(pending))
	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return applied, fmt.Errorf("migration %04d_%s: %w", mig.Version, mig.Description, err)
		}
		applied = append(applied, mig)
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (version, description)
		VALUES ($1, $2)
	`, mig.Version, mig.Description)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load reads "NNNN_description.sql" files from fsys, sorted by version.
func Load(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string, len(names))
	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		version, description, err := parseName(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, Migration{
			Version:     version,
			Description: description,
			SQL:         string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// After returns the migrations with a version greater than current.
func After(migrations []Migration, current int) []Migration {
	i := sort.Search(len(migrations), func(i int) bool {
		return migrations[i].Version > current
	})
	return migrations[i:]
}

func parseName(name string) (int, string, error) {
	base := strings.TrimSuffix(path.Base(name), ".sql")
	prefix, description, ok := strings.Cut(base, "_")
	if !ok || description == "" {
		return 0, "", fmt.Errorf("invalid migration name %q", name)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("invalid migration version in %q", name)
	}
	return version, description, nil
}
