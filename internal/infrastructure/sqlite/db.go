// Package sqlite stores widget usage statistics in a local SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/orchard/internal/log"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// DB is an open statistics database.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the database at path and migrates it to
// the latest schema. An existing file is copied to path+".bak" first.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	if err := backup(path); err != nil {
		return nil, err
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatStore, "database ready", "path", path)
	return db, nil
}

// NewMemoryDB opens a migrated in-memory database.
func NewMemoryDB() (*DB, error) {
	conn, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would otherwise see its own empty database.
	conn.SetMaxOpenConns(1)
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func backup(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: database path comes from config
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: derived from database path
	if err != nil {
		return fmt.Errorf("creating database backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("writing database backup: %w", err)
	}
	return dst.Close()
}

// migrate applies every embedded up migration newer than the recorded
// version, each in its own transaction.
func (db *DB) migrate() error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}
	var current uint
	if err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	version, err := src.First()
	for err == nil {
		if version > current {
			if err := db.apply(src, version); err != nil {
				return err
			}
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("listing migrations: %w", err)
	}
	return nil
}

func (db *DB) apply(src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("applying migration %d (%s): %w", version, name, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		_ = tx.Rollback()
		return err
	}
	log.Info(log.CatStore, "applied migration", "version", version, "name", name)
	return tx.Commit()
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// UsageRepository returns the usage statistics repository.
func (db *DB) UsageRepository() *UsageRepository {
	return &UsageRepository{db: db.conn}
}
