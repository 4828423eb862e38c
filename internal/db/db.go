package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/camka14/mvp-site/internal/config"
	dbgen "github.com/camka14/mvp-site/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the scheduling store. Queries is bound either to the pool or, inside
// RunInTx, to the open transaction.
type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// New opens a local SQLite store at dataSourceName with foreign keys enforced
// and the schema migrated to the latest version.
func New(dataSourceName string) (*DB, error) {
	return openSQLite(dataSourceName)
}

// NewFromConfig opens the store named by cfg.Database. Remote turso databases
// are not migrated here; cmd/dbtools owns their schema.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		return openSQLite(cfg.Database.Filename)
	case "turso":
		conn, err := sql.Open("libsql", fmt.Sprintf("%s?authToken=%s", cfg.Database.URL, cfg.Database.AuthToken))
		if err != nil {
			return nil, fmt.Errorf("open turso database: %w", err)
		}
		return &DB{DB: conn, Queries: dbgen.New(conn)}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

func openSQLite(dataSourceName string) (*DB, error) {
	conn, err := sql.Open("sqlite3", ensureForeignKeysEnabledDSN(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate scheduling schema: %w", err)
	}
	return &DB{DB: conn, Queries: dbgen.New(conn)}, nil
}

// ensureForeignKeysEnabledDSN appends _fk=1 unless the DSN already sets _fk.
// Slot and event_fields rows rely on ON DELETE CASCADE.
func ensureForeignKeysEnabledDSN(dataSourceName string) string {
	switch {
	case strings.Contains(dataSourceName, "_fk="):
		return dataSourceName
	case strings.Contains(dataSourceName, "?"):
		return dataSourceName + "&_fk=1"
	default:
		return dataSourceName + "?_fk=1"
	}
}

// MigrationsFS exposes the embedded migrations to cmd/dbtools.
func MigrationsFS() embed.FS {
	return migrationsFS
}

func runMigrations(conn *sql.DB) error {
	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("sqlite3 migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("embedded migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// RunInTx runs fn against a copy of db whose Queries are bound to a single
// transaction. The transaction commits only when fn returns nil; an error or a
// panic from fn rolls every write back.
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&DB{DB: db.DB, Queries: dbgen.New(tx)}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v (after %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
