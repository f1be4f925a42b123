package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/emilianohg/sitetrack/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dsnOptions turns on foreign keys, waits on a locked database instead of
// failing, and makes every transaction take the write lock up front.
const dsnOptions = "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

var db *sql.DB

// MigrationStatus holds information about database migration state
type MigrationStatus struct {
	CurrentVersion uint
	LatestVersion  uint
	Dirty          bool
	Pending        bool
}

// Open opens the shared database connection without running migrations
func Open() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	if err := config.EnsureDirectories(); err != nil {
		return nil, err
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	conn, err := OpenPath(dbPath)
	if err != nil {
		return nil, err
	}
	db = conn
	return db, nil
}

// OpenPath opens a database file at an explicit path, separate from the
// shared connection.
func OpenPath(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// OpenAndMigrate opens the database and runs all pending migrations
func OpenAndMigrate() (*sql.DB, error) {
	database, err := Open()
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(); err != nil {
		return nil, err
	}

	return database, nil
}

func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetMigrationStatus returns the migration status of the shared connection
func GetMigrationStatus() (*MigrationStatus, error) {
	if db == nil {
		return nil, fmt.Errorf("database not open")
	}
	return Status(db)
}

// Status returns the migration status of conn
func Status(conn *sql.DB) (*MigrationStatus, error) {
	m, err := getMigrator(conn)
	if err != nil {
		return nil, err
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return nil, err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var latestVersion uint
	first, err := source.First()
	if err == nil {
		latestVersion = first
		for {
			next, err := source.Next(latestVersion)
			if err != nil {
				break
			}
			latestVersion = next
		}
	}

	return &MigrationStatus{
		CurrentVersion: version,
		LatestVersion:  latestVersion,
		Dirty:          dirty,
		Pending:        version < latestVersion,
	}, nil
}

// RunMigrations runs all pending migrations on the shared connection
func RunMigrations() error {
	if db == nil {
		return fmt.Errorf("database not open")
	}
	return Migrate(db)
}

// Migrate runs all pending migrations on conn
func Migrate(conn *sql.DB) error {
	m, err := getMigrator(conn)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func getMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}
