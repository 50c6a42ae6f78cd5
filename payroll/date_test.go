package payroll_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
)

func TestParseDate(t *testing.T) {
	d, err := payroll.ParseDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, payroll.Date{Year: 2025, Month: time.March, Day: 1}, d)

	d, err = payroll.ParseDate("2025-3-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.String())

	for _, bad := range []string{"", "2025-13-01", "2025-02-30", "01/03/2025", "2025-03"} {
		_, err := payroll.ParseDate(bad)
		require.ErrorIs(t, err, payroll.ErrInvalidDate, bad)
	}
}

func TestDate_JSON(t *testing.T) {
	var r struct {
		Date payroll.Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-1-9"}`), &r))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-09"}`, string(out))
}

func TestDate_InMonth(t *testing.T) {
	jan := payroll.YearMonth{Year: 2025, Month: time.January}

	assert.True(t, payroll.MustParseDate("2025-01-31").InMonth(jan))
	assert.False(t, payroll.MustParseDate("2025-10-01").InMonth(jan))
	assert.False(t, payroll.MustParseDate("2024-01-15").InMonth(jan))
}

func TestYearMonth(t *testing.T) {
	ym, err := payroll.ParseYearMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-11", ym.AddMonths(-2).String())
	assert.Equal(t, "2026-01", ym.AddMonths(12).String())

	_, err = payroll.ParseYearMonth("January")
	require.ErrorIs(t, err, payroll.ErrInvalidMonth)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "sept", payroll.MonthLabel(payroll.LanguageSpanish, time.September))
	assert.Equal(t, "Sep", payroll.MonthLabel(payroll.LanguageEnglish, time.September))
	assert.Equal(t, "ene", payroll.MonthLabel("fr", time.January))
}
