package data

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"go-scripts-app/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewDB creates a new database connection pool for the SQLite file in cfg.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// WAL allows concurrent readers while a writer's transaction is open;
	// busy_timeout serializes the occasional concurrent writer instead of
	// failing it.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// ApplyMigrations runs all up migrations against the SQLite file at path,
// creating the parent directory if needed.
func ApplyMigrations(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	// Up applies all available up migrations.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// MigrateDB applies the embedded migrations to an already-open connection.
// Used where the caller owns the connection, such as in-memory databases.
func MigrateDB(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	drv, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to wrap connection for migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// MoveLegacyDatabase moves a database file left at the application root by
// older versions into the managed location. It is a no-op when there is no
// legacy file or the managed file already exists. Callers treat a failure
// here as non-fatal.
func MoveLegacyDatabase(legacyPath, path string) (bool, error) {
	if legacyPath == path {
		return false, nil
	}
	if _, err := os.Stat(legacyPath); err != nil {
		return false, nil
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	if err := os.Rename(legacyPath, path); err != nil {
		return false, fmt.Errorf("failed to move legacy database: %w", err)
	}
	return true, nil
}
