package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// assertDec compares decimals by value ("8.30" equals "8.3").
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if len(msgAndArgs) == 0 {
		msgAndArgs = []any{"want %s, got %s", want, got.String()}
	}
	assert.True(t, dec(want).Equal(got), msgAndArgs...)
}

func record(date string, normal string) payroll.DailyRecord {
	return payroll.DailyRecord{
		Date:        payroll.MustParseDate(date),
		NormalHours: dec(normal),
		Shift:       payroll.ShiftMorning,
	}
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

// env bundles the stores over one transactional memory backend.
type env struct {
	storage *store.TxMemory
	configs *payroll.ConfigStore
	records *payroll.RecordStore
	backup  *payroll.Backup
}

func newEnv(t *testing.T, now func() time.Time) *env {
	t.Helper()
	mem := store.NewTxMemory()
	configs := payroll.NewConfigStore(mem)
	records := payroll.NewRecordStore(mem, payroll.WithClock(now))
	return &env{
		storage: mem,
		configs: configs,
		records: records,
		backup:  payroll.NewBackup(mem, configs, records),
	}
}

func mustSet(t *testing.T, s payroll.Storage, key, value string) {
	t.Helper()
	require.NoError(t, s.Set(context.Background(), key, value))
}

// failingStorage fails Set for one key, and every operation when broken.
type failingStorage struct {
	payroll.Storage
	failKey string
	broken  bool
}

var errBackend = errors.New("backend unavailable")

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.broken {
		return "", false, errBackend
	}
	return f.Storage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.broken || key == f.failKey {
		return errBackend
	}
	return f.Storage.Set(ctx, key, value)
}
