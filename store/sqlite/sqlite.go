/*
Package sqlite provides a SQLite-backed implementation of payroll.Storage.

PURPOSE:
  Holds the key-value pairs the stores persist (config, daily records,
  shift preferences) in a single table, so a local install keeps its data
  across restarts.

INTERFACES IMPLEMENTED:
  payroll.Storage:   Get / Set / Remove / Clear
  payroll.TxStorage: WithTx over a database transaction

KEY TABLES:
  kv: key TEXT PRIMARY KEY, value TEXT, updated_at TEXT (RFC 3339)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single open connection so an
  in-memory database is the same database for every query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/horasett.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  records := payroll.NewRecordStore(store)

MIGRATION:
  Versioned migrations are embedded (migrations/*.sql) and applied with
  golang-migrate on New().

SEE ALSO:
  - payroll/storage.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
  - store/postgres/postgres.go: PostgreSQL implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/horasett/payroll-engine/payroll"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements payroll.TxStorage using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := FromDB(db)
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// FromDB wraps an already open handle. The schema is assumed to exist.
func FromDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded migrations.
// The migrate instance is not closed: its driver would close s.db.
func (s *Store) migrate() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// =============================================================================
// KEY-VALUE STORE (payroll.Storage interface)
// =============================================================================

// conn is satisfied by both *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	getQuery    = `SELECT value FROM kv WHERE key = ?`
	removeQuery = `DELETE FROM kv WHERE key = ?`
	clearQuery  = `DELETE FROM kv`
	setQuery    = `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
)

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, s.db, key)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, s.db, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, s.db, key)
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx, s.db)
}

func (s *Store) get(ctx context.Context, c conn, key string) (string, bool, error) {
	var value string
	err := c.QueryRowContext(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, c conn, key, value string) error {
	if _, err := c.ExecContext(ctx, setQuery, key, value, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, c conn, key string) error {
	if _, err := c.ExecContext(ctx, removeQuery, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (s *Store) clear(ctx context.Context, c conn) error {
	if _, err := c.ExecContext(ctx, clearQuery); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSACTIONAL STORE (payroll.TxStorage interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(payroll.Storage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx, parent: s}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx     *sql.Tx
	parent *Store
}

func (ts *txStore) Get(ctx context.Context, key string) (string, bool, error) {
	return ts.parent.get(ctx, ts.tx, key)
}

func (ts *txStore) Set(ctx context.Context, key, value string) error {
	return ts.parent.set(ctx, ts.tx, key, value)
}

func (ts *txStore) Remove(ctx context.Context, key string) error {
	return ts.parent.remove(ctx, ts.tx, key)
}

func (ts *txStore) Clear(ctx context.Context) error {
	return ts.parent.clear(ctx, ts.tx)
}
