package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/storagetest"
	"github.com/horasett/payroll-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) payroll.TxStorage {
		return newStore(t)
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "horasett.db")

	// GIVEN: a record saved through a file-backed store
	s, err := sqlite.New(path)
	require.NoError(t, err)
	records := payroll.NewRecordStore(s)
	require.NoError(t, records.Save(ctx, payroll.DailyRecord{
		Date:  payroll.MustParseDate("2025-01-02"),
		Shift: payroll.ShiftNight,
	}))
	require.NoError(t, s.Close())

	// WHEN: the file is reopened (migrations run again and are a no-op)
	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	// THEN
	all, err := payroll.NewRecordStore(s).All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, payroll.ShiftNight, all[0].Shift)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{payroll.KeyDailyRecords}, keys)
}

// =============================================================================
// SQL ERROR PATHS (sqlmock)
// =============================================================================

var errDisk = errors.New("disk I/O error")

func newMock(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.FromDB(db), mock
}

func TestStore_GetWrapsQueryError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs(payroll.KeyConfig).
		WillReturnError(errDisk)

	_, _, err := s.Get(context.Background(), payroll.KeyConfig)

	require.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), payroll.KeyConfig)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetMissingRow(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs(payroll.KeyConfig).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, found, err := s.Get(context.Background(), payroll.KeyConfig)

	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetUpserts(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value, updated_at)`)).
		WithArgs(payroll.KeyCurrentWeek, "7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), payroll.KeyCurrentWeek, "7"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTxRollsBackOnWriteError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv`)).
		WithArgs(payroll.KeyConfig, "{}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv`)).
		WithArgs(payroll.KeyDailyRecords, "[]", sqlmock.AnyArg()).
		WillReturnError(errDisk)
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx payroll.Storage) error {
		if err := tx.Set(context.Background(), payroll.KeyConfig, "{}"); err != nil {
			return err
		}
		return tx.Set(context.Background(), payroll.KeyDailyRecords, "[]")
	})

	require.ErrorIs(t, err, errDisk)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ImportSurfacesBeginError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errDisk)

	backup := payroll.NewBackup(s, payroll.NewConfigStore(s), payroll.NewRecordStore(s))
	err := backup.Import(context.Background(),
		strings.NewReader(`{"version":"1.0","config":{},"dailyRecords":[]}`))

	require.ErrorIs(t, err, errDisk)
	require.NoError(t, mock.ExpectationsWereMet())
}
