package db

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Migration represents a database migration with timestamp-based versioning (Rails-style)
type Migration struct {
	Version     int64 // Timestamp format: YYYYMMDDHHmmss (e.g., 20240204153000)
	Description string
	Up          func(*sql.Tx) error
	Down        func(*sql.Tx) error // Optional rollback function
}

// MigrationStatus describes whether a known migration has been applied.
type MigrationStatus struct {
	Version     int64  `db:"version" json:"version"`
	Description string `db:"description" json:"description"`
	Applied     bool   `db:"-" json:"applied"`
	AppliedAt   string `db:"applied_at" json:"appliedAt,omitempty"`
}

// MigrationRunner handles database migrations
type MigrationRunner struct {
	db *sqlx.DB
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sqlx.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

// Run executes all pending migrations in timestamp order
func (r *MigrationRunner) Run(ctx context.Context, migrations []Migration) error {
	if err := r.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range sortMigrations(migrations) {
		if !applied[m.Version] {
			if err := r.applyMigration(ctx, m); err != nil {
				return errors.Wrapf(err, "failed to apply migration %d: %s", m.Version, m.Description)
			}
		}
	}

	return nil
}

// Rollback rolls back the last applied migration and returns its version, or 0 if none was applied.
func (r *MigrationRunner) Rollback(ctx context.Context, migrations []Migration) (int64, error) {
	if err := r.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}

	var version int64
	err := r.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err != nil {
		return 0, errors.Wrap(err, "failed to get latest migration version")
	}

	if version == 0 {
		return 0, nil
	}

	for _, m := range migrations {
		if m.Version == version {
			if m.Down == nil {
				return 0, errors.Errorf("migration %d has no rollback function", version)
			}
			return version, r.rollbackMigration(ctx, m)
		}
	}

	return 0, errors.Errorf("migration %d not found in provided migrations", version)
}

// Status reports every known migration, plus any applied version missing from the list.
func (r *MigrationRunner) Status(ctx context.Context, migrations []Migration) ([]MigrationStatus, error) {
	if err := r.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	var rows []MigrationStatus
	if err := r.db.SelectContext(ctx, &rows, "SELECT version, description, applied_at FROM schema_migrations"); err != nil {
		return nil, errors.Wrap(err, "failed to read schema_migrations")
	}
	appliedAt := make(map[int64]string, len(rows))
	for _, row := range rows {
		appliedAt[row.Version] = row.AppliedAt
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	known := make(map[int64]bool, len(migrations))
	for _, m := range sortMigrations(migrations) {
		at, ok := appliedAt[m.Version]
		statuses = append(statuses, MigrationStatus{
			Version:     m.Version,
			Description: m.Description,
			Applied:     ok,
			AppliedAt:   at,
		})
		known[m.Version] = true
	}
	for _, row := range rows {
		if !known[row.Version] {
			row.Applied = true
			statuses = append(statuses, row)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Version < statuses[j].Version
	})
	return statuses, nil
}

func sortMigrations(migrations []Migration) []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	return sorted
}

func (r *MigrationRunner) ensureMigrationsTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version BIGINT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)
	`)
	return errors.Wrap(err, "failed to create schema_migrations table")
}

func (r *MigrationRunner) getAppliedMigrations(ctx context.Context) (map[int64]bool, error) {
	var versions []int64
	err := r.db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get applied migrations")
	}

	applied := make(map[int64]bool)
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (r *MigrationRunner) applyMigration(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := m.Up(tx.Tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		r.db.Rebind("INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)"),
		m.Version, time.Now().UTC().Format(time.RFC3339), m.Description)
	if err != nil {
		return errors.Wrap(err, "failed to record migration")
	}

	return tx.Commit()
}

func (r *MigrationRunner) rollbackMigration(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := m.Down(tx.Tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind("DELETE FROM schema_migrations WHERE version = ?"), m.Version)
	if err != nil {
		return errors.Wrap(err, "failed to remove migration record")
	}

	return tx.Commit()
}

// GetAppliedVersions returns a list of applied migration versions
func (r *MigrationRunner) GetAppliedVersions(ctx context.Context) ([]int64, error) {
	if err := r.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	var versions []int64
	err := r.db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get applied versions")
	}
	return versions, nil
}
