/*
types.go - Core domain types for the payroll engine

PURPOSE:
  Defines the persisted shapes (Config, DailyRecord) and the folded hour
  totals shared by the stores, the calculator and the aggregator.

PERSISTED NAMES:
  JSON field names are the keys already written by existing installs
  (horaNormal, horasNormales, turno, ...). Go field names are English.
  Changing a json tag breaks every stored collection and every export file.

QUANTITIES:
  Hours, rates and percentages are decimal.Decimal. Percentages are on a
  0-100 scale. Nothing here is validated: negative or huge values are
  stored and computed as given.

SEE ALSO:
  - config.go: defaults and per-field merge
  - calculator.go: CalculationResult
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMS
// =============================================================================

// Language is a UI language code.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// Shift is the part of the day a record was worked in.
type Shift string

const (
	ShiftMorning   Shift = "mañana"
	ShiftAfternoon Shift = "tarde"
	ShiftNight     Shift = "noche"
)

// Shifts lists the valid shifts in display order.
var Shifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// =============================================================================
// DAILY RECORD
// =============================================================================

// DailyRecord is one calendar day of logged work. At most one per Date.
// Absent hour fields decode as zero.
type DailyRecord struct {
	Date          Date            `json:"date"`
	NormalHours   decimal.Decimal `json:"horasNormales"`
	NightHours    decimal.Decimal `json:"horasNocturnas"`
	HolidayHours  decimal.Decimal `json:"horasFestivas"`
	OvertimeHours decimal.Decimal `json:"horasExtras"`
	Notes         string          `json:"notas,omitempty"`
	Shift         Shift           `json:"turno,omitempty"`
}

// TotalHours is the sum of the four categories.
func (r DailyRecord) TotalHours() decimal.Decimal {
	return r.NormalHours.Add(r.NightHours).Add(r.HolidayHours).Add(r.OvertimeHours)
}

// Equal compares hours by value.
func (r DailyRecord) Equal(o DailyRecord) bool {
	return r.Date == o.Date &&
		r.NormalHours.Equal(o.NormalHours) &&
		r.NightHours.Equal(o.NightHours) &&
		r.HolidayHours.Equal(o.HolidayHours) &&
		r.OvertimeHours.Equal(o.OvertimeHours) &&
		r.Notes == o.Notes &&
		r.Shift == o.Shift
}

// =============================================================================
// HOUR TOTALS
// =============================================================================

// HourTotals is the per-category fold of a set of records.
type HourTotals struct {
	Normal   decimal.Decimal `json:"horasNormales"`
	Night    decimal.Decimal `json:"horasNocturnas"`
	Holiday  decimal.Decimal `json:"horasFestivas"`
	Overtime decimal.Decimal `json:"horasExtras"`
}

// Add folds one record into the totals.
func (t HourTotals) Add(r DailyRecord) HourTotals {
	return HourTotals{
		Normal:   t.Normal.Add(r.NormalHours),
		Night:    t.Night.Add(r.NightHours),
		Holiday:  t.Holiday.Add(r.HolidayHours),
		Overtime: t.Overtime.Add(r.OvertimeHours),
	}
}

func (t HourTotals) Total() decimal.Decimal {
	return t.Normal.Add(t.Night).Add(t.Holiday).Add(t.Overtime)
}

// SumHours folds records; an empty slice yields all zeros.
func SumHours(records []DailyRecord) HourTotals {
	var totals HourTotals
	for _, r := range records {
		totals = totals.Add(r)
	}
	return totals
}
