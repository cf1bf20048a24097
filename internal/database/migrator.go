package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	DefaultMigrationsPath = "db/migrations"
	DefaultSeedsPath      = "db/seeds"

	defaultReadyAttempts = 30
	defaultReadyInterval = 2 * time.Second
)

// ErrMigrationsNotFound is returned when the migrations directory is missing
var ErrMigrationsNotFound = errors.New("migrations directory not found")

// OpenPostgres opens a plain database/sql handle for the migration runner
func OpenPostgres(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return db, nil
}

// MigrationRunner applies the SQL migrations and seed files to postgres
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	attempts       int
	interval       time.Duration
}

type MigrationOption func(*MigrationRunner)

// WithPaths overrides the migrations and seeds directories
func WithPaths(migrations, seeds string) MigrationOption {
	return func(mr *MigrationRunner) {
		mr.migrationsPath = migrations
		mr.seedsPath = seeds
	}
}

// WithReadiness sets how often and how long WaitForDatabase polls
func WithReadiness(attempts int, interval time.Duration) MigrationOption {
	return func(mr *MigrationRunner) {
		mr.attempts = attempts
		mr.interval = interval
	}
}

func NewMigrationRunner(db *sql.DB, opts ...MigrationOption) *MigrationRunner {
	mr := &MigrationRunner{
		db:             db,
		migrationsPath: DefaultMigrationsPath,
		seedsPath:      DefaultSeedsPath,
		attempts:       defaultReadyAttempts,
		interval:       defaultReadyInterval,
	}
	for _, opt := range opts {
		opt(mr)
	}
	return mr
}

// WaitForDatabase pings until the server answers, the attempts run out or ctx ends
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= mr.attempts; attempt++ {
		if lastErr = mr.db.PingContext(ctx); lastErr == nil {
			slog.Info("database is ready", "attempt", attempt)
			return nil
		}

		slog.Warn("database not ready", "attempt", attempt, "max_attempts", mr.attempts, "error", lastErr)
		if attempt == mr.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mr.interval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", mr.attempts, lastErr)
}

func (mr *MigrationRunner) hasMigrations() bool {
	_, err := os.Stat(mr.migrationsPath)
	return err == nil
}

func (mr *MigrationRunner) open() (*migrate.Migrate, error) {
	if !mr.hasMigrations() {
		return nil, fmt.Errorf("%w: %s", ErrMigrationsNotFound, mr.migrationsPath)
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending up migration and returns the resulting version.
// A dirty schema is forced back to its recorded version before migrating.
func (mr *MigrationRunner) RunMigrations() (uint, error) {
	m, err := mr.open()
	if err != nil {
		return 0, err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		slog.Warn("schema is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return 0, fmt.Errorf("failed to force version %d: %w", version, err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("schema is up to date", "version", version)
			return version, nil
		}
		return 0, fmt.Errorf("migration failed: %w", err)
	}

	version, _, err = m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	slog.Info("applied migrations", "version", version)
	return version, nil
}

// Status reports the applied version and whether the last migration failed midway
func (mr *MigrationRunner) Status() (version uint, dirty bool, err error) {
	m, err := mr.open()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// LoadSeeds executes every *.sql file in the seeds directory in name order, each in
// its own transaction. A failing file is rolled back and skipped. It returns the
// number of files applied.
func (mr *MigrationRunner) LoadSeeds(ctx context.Context) (int, error) {
	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to list seed files: %w", err)
	}

	applied := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if err := mr.execSeed(ctx, string(content)); err != nil {
			slog.Warn("seed file failed", "file", filepath.Base(file), "error", err)
			continue
		}
		applied++
		slog.Info("applied seed file", "file", filepath.Base(file))
	}

	return applied, nil
}

func (mr *MigrationRunner) execSeed(ctx context.Context, statement string) error {
	tx, err := mr.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, statement); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RunMigrationsIfEnabled waits for postgres, migrates and optionally seeds
func RunMigrationsIfEnabled(ctx context.Context, db *sql.DB, enabled, seed bool) error {
	if !enabled {
		slog.Info("auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(ctx); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if _, err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if seed {
		if _, err := runner.LoadSeeds(ctx); err != nil {
			slog.Warn("seed data loading failed", "error", err)
		}
	}

	return nil
}
