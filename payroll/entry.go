package payroll

import (
	"fmt"
	"strings"
)

var shiftAliases = map[string]Shift{
	"mañana":    ShiftMorning,
	"manana":    ShiftMorning,
	"morning":   ShiftMorning,
	"tarde":     ShiftAfternoon,
	"afternoon": ShiftAfternoon,
	"noche":     ShiftNight,
	"night":     ShiftNight,
}

// ParseShift accepts the stored Spanish names and their English equivalents.
func ParseShift(s string) (Shift, error) {
	shift, ok := shiftAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidShift, s)
	}
	return shift, nil
}

// ValidateEntry is the input-boundary check for a daily entry typed by a
// user: a dated record with a shift and some hours. The stores and
// Calculate never call it and accept any record.
func ValidateEntry(r DailyRecord) error {
	if r.Date.IsZero() {
		return &EntryError{Field: "date", Err: ErrInvalidDate}
	}
	if r.Shift == "" {
		return &EntryError{Field: "turno", Err: ErrShiftRequired}
	}
	if !r.Shift.Valid() {
		return &EntryError{Field: "turno", Err: fmt.Errorf("%w: %q", ErrInvalidShift, r.Shift)}
	}
	if !r.TotalHours().IsPositive() {
		return &EntryError{Field: "horas", Err: ErrNoHours}
	}
	return nil
}
