package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMigrator(ctx context.Context, dbURL string, logger *slog.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{db: db, logger: logger}, nil
}

// Migrations lists the embedded migration files in apply order.
func Migrations() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run applies every migration not yet recorded in schema_migrations, each
// in its own transaction.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := Migrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		var count int
		if err := m.db.QueryRowContext(ctx, countMigration, name).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			m.logger.Debug("migration already applied", "migration", name)
			continue
		}

		if err := m.apply(ctx, name); err != nil {
			return err
		}
		m.logger.Info("applied migration", "migration", name)
	}

	return nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	migrationSQL, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, recordMigration, name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}
