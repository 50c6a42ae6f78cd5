// Package storagetest holds the behaviour every payroll.Storage backend
// must share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
)

// Factory returns an empty backend. Cleanup is the caller's job (t.Cleanup).
type Factory func(t *testing.T) payroll.TxStorage

var errAbort = errors.New("abort")

// Run executes the contract against backends produced by newStorage.
func Run(t *testing.T, newStorage Factory) {
	t.Run("get missing key", func(t *testing.T) {
		s := newStorage(t)
		v, found, err := s.Get(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)

		require.NoError(t, s.Set(ctx, payroll.KeyConfig, `{"horaNormal":"12"}`))
		require.NoError(t, s.Set(ctx, payroll.KeyConfig, `{"horaNormal":"13"}`))

		v, found, err := s.Get(ctx, payroll.KeyConfig)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"horaNormal":"13"}`, v)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)

		require.NoError(t, s.Set(ctx, "blank", ""))
		_, found, err := s.Get(ctx, "blank")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("remove", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)

		require.NoError(t, s.Set(ctx, payroll.KeyWeeklyDefaultShift, "noche"))
		require.NoError(t, s.Remove(ctx, payroll.KeyWeeklyDefaultShift))
		require.NoError(t, s.Remove(ctx, payroll.KeyWeeklyDefaultShift), "removing a missing key is fine")

		_, found, err := s.Get(ctx, payroll.KeyWeeklyDefaultShift)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)

		require.NoError(t, s.Set(ctx, payroll.KeyConfig, "{}"))
		require.NoError(t, s.Set(ctx, payroll.KeyDailyRecords, "[]"))
		require.NoError(t, s.Clear(ctx))

		for _, key := range []string{payroll.KeyConfig, payroll.KeyDailyRecords} {
			_, found, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, found, key)
		}
	})

	t.Run("tx commit", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)

		err := s.WithTx(ctx, func(tx payroll.Storage) error {
			if err := tx.Set(ctx, payroll.KeyConfig, "{}"); err != nil {
				return err
			}
			v, found, err := tx.Get(ctx, payroll.KeyConfig)
			require.NoError(t, err)
			assert.True(t, found, "writes are visible inside the transaction")
			assert.Equal(t, "{}", v)
			return tx.Set(ctx, payroll.KeyDailyRecords, "[]")
		})
		require.NoError(t, err)

		_, found, err := s.Get(ctx, payroll.KeyDailyRecords)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("tx rollback", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)
		require.NoError(t, s.Set(ctx, payroll.KeyConfig, "before"))

		err := s.WithTx(ctx, func(tx payroll.Storage) error {
			if err := tx.Set(ctx, payroll.KeyConfig, "after"); err != nil {
				return err
			}
			if err := tx.Set(ctx, payroll.KeyDailyRecords, "[]"); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		v, _, err := s.Get(ctx, payroll.KeyConfig)
		require.NoError(t, err)
		assert.Equal(t, "before", v)

		_, found, err := s.Get(ctx, payroll.KeyDailyRecords)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("stores on top of backend", func(t *testing.T) {
		ctx := context.Background()
		s := newStorage(t)
		records := payroll.NewRecordStore(s)
		backup := payroll.NewBackup(s, payroll.NewConfigStore(s), records)

		rec := payroll.DailyRecord{Date: payroll.MustParseDate("2025-01-02"), Shift: payroll.ShiftMorning}
		require.NoError(t, records.Save(ctx, rec))

		snap, err := backup.Export(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Metadata.TotalRecords)
	})
}
