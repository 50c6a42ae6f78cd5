package cli

import (
	"context"
	"fmt"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/store"
	"github.com/horasett/payroll-engine/settings"
	"github.com/horasett/payroll-engine/store/postgres"
	"github.com/horasett/payroll-engine/store/sqlite"
)

// openStorage opens the backend named in s. A non-nil override wins and is
// not closed by the returned func.
func openStorage(ctx context.Context, s settings.Settings, override payroll.TxStorage) (payroll.TxStorage, func() error, error) {
	noop := func() error { return nil }
	if override != nil {
		return override, noop, nil
	}

	switch s.Store {
	case settings.StoreSQLite:
		db, err := sqlite.New(s.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return db, db.Close, nil

	case settings.StorePostgres:
		db, err := postgres.New(ctx, s.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return db, func() error { db.Close(); return nil }, nil

	case settings.StoreMemory:
		return store.NewTxMemory(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", s.Store)
}
