package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/store"
)

func TestMonthlyAggregator_History(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, fixedClock(2025, time.March, 10))
	agg := payroll.NewMonthlyAggregator(e.records, e.configs)

	require.NoError(t, e.records.Save(ctx, record("2025-01-10", "10")))
	require.NoError(t, e.records.Save(ctx, record("2025-03-02", "2")))

	series, err := agg.History(ctx, 3, payroll.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, []string{series[0].Label, series[1].Label, series[2].Label})
	assertDec(t, "105", series[0].Result.Gross)
	assertDec(t, "0", series[1].Result.Gross)
	assertDec(t, "21", series[2].Result.Gross)
}

func TestMonthlyAggregator_RateChangeIsRetroactive(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, fixedClock(2025, time.February, 1))
	agg := payroll.NewMonthlyAggregator(e.records, e.configs)
	jan := payroll.YearMonth{Year: 2025, Month: time.January}

	require.NoError(t, e.records.Save(ctx, record("2025-01-10", "10")))

	before, err := agg.Month(ctx, jan)
	require.NoError(t, err)
	assertDec(t, "105", before.Gross)

	_, err = e.configs.Update(ctx, payroll.ConfigPatch{NormalRate: decPtr("12")})
	require.NoError(t, err)

	after, err := agg.Month(ctx, jan)
	require.NoError(t, err)
	assertDec(t, "120", after.Gross)
}

func TestMonthlyAggregator_NoMonths(t *testing.T) {
	e := newEnv(t, time.Now)
	series, err := payroll.NewMonthlyAggregator(e.records, e.configs).History(context.Background(), 0, payroll.LanguageSpanish)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestNewServices_SharesOneBackend(t *testing.T) {
	ctx := context.Background()
	mem := store.NewTxMemory()
	svc := payroll.NewServices(mem, fixedClock(2025, time.March, 10))

	require.NoError(t, svc.Records.Save(ctx, record("2025-03-03", "8")))

	result, err := svc.Salaries.Month(ctx, svc.Records.CurrentMonth())
	require.NoError(t, err)
	assertDec(t, "84", result.Gross)

	snap, err := svc.Backup.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Metadata.TotalRecords)
	assert.Equal(t, time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), snap.ExportDate)
}
