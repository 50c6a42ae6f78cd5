package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
)

func TestValidateEntry(t *testing.T) {
	valid := record("2025-01-02", "8")

	noShift := valid
	noShift.Shift = ""

	badShift := valid
	badShift.Shift = "madrugada"

	noHours := valid
	noHours.NormalHours = dec("0")

	negative := valid
	negative.NormalHours = dec("-2")
	negative.NightHours = dec("1")

	noDate := valid
	noDate.Date = payroll.Date{}

	cases := []struct {
		name    string
		rec     payroll.DailyRecord
		wantErr error
	}{
		{"valid", valid, nil},
		{"missing shift", noShift, payroll.ErrShiftRequired},
		{"unknown shift", badShift, payroll.ErrInvalidShift},
		{"zero hours", noHours, payroll.ErrNoHours},
		{"negative total", negative, payroll.ErrNoHours},
		{"missing date", noDate, payroll.ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := payroll.ValidateEntry(tc.rec)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, payroll.IsClientError(err))

			var entryErr *payroll.EntryError
			require.ErrorAs(t, err, &entryErr)
			assert.NotEmpty(t, entryErr.Field)
		})
	}
}

func TestParseShift(t *testing.T) {
	for in, want := range map[string]payroll.Shift{
		"mañana": payroll.ShiftMorning,
		"Manana": payroll.ShiftMorning,
		"night":  payroll.ShiftNight,
		" tarde": payroll.ShiftAfternoon,
	} {
		got, err := payroll.ParseShift(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := payroll.ParseShift("lunch")
	require.ErrorIs(t, err, payroll.ErrInvalidShift)
}
