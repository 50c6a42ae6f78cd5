/*
storage.go - Key-value persistence port

PURPOSE:
  Defines the interface between the stores and whatever holds the bytes.
  Every persisted value is a JSON (or plain) string under a fixed key, so
  existing data keeps its layout whichever backend serves it.

KEY INTERFACES:
  Storage:   get / set / remove / clear by string key
  TxStorage: Storage + WithTx for all-or-nothing multi-key writes

KEYS:
  horasett_config         JSON object, partial objects allowed
  horasett_daily_records  JSON array of DailyRecord, insertion order
  weeklyDefaultShift      plain shift string
  currentWeek             plain week number

ERRORS:
  Backends return errors only for I/O failures. A missing key is reported
  through the found flag, never as an error.

IMPLEMENTATIONS:
  - payroll/store/memory.go: in-memory, for tests and `--store memory`
  - store/sqlite/sqlite.go: SQLite file (default)
  - store/postgres/postgres.go: PostgreSQL table

SEE ALSO:
  - config_store.go, record_store.go, shift.go: consumers
  - backup.go: uses WithTx for atomic import
*/
package payroll

import "context"

const (
	KeyConfig             = "horasett_config"
	KeyDailyRecords       = "horasett_daily_records"
	KeyWeeklyDefaultShift = "weeklyDefaultShift"
	KeyCurrentWeek        = "currentWeek"
)

// Storage is a string key-value store.
type Storage interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or replaces the value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// TxStorage wraps Storage with transaction support.
type TxStorage interface {
	Storage

	// WithTx executes fn within a transaction.
	// If fn returns error, every write made through the Storage passed
	// to fn is discarded.
	WithTx(ctx context.Context, fn func(Storage) error) error
}

// withTx runs fn atomically when the backend supports it.
func withTx(ctx context.Context, s Storage, fn func(Storage) error) error {
	if tx, ok := s.(TxStorage); ok {
		return tx.WithTx(ctx, fn)
	}
	return fn(s)
}
