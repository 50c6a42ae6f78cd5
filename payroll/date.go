package payroll

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day, the unique key of a daily record
// =============================================================================

// Date is a calendar day without time of day or zone.
// Month membership is decided on these fields, never on string prefixes.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate builds a Date, normalizing overflow (e.g. Feb 30 -> Mar 2).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate accepts YYYY-MM-DD and the unpadded YYYY-M-D form.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParseDate panics on malformed input. Tests and literals only.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }
func (d Date) IsZero() bool    { return d == Date{} }

// InMonth reports whether d falls in the given calendar month.
func (d Date) InMonth(ym YearMonth) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

func (d Date) YearMonth() YearMonth { return YearMonth{Year: d.Year, Month: d.Month} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// YEAR MONTH - Aggregation bucket
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth accepts YYYY-MM.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// AddMonths moves n months forward (negative moves back), crossing years.
func (ym YearMonth) AddMonths(n int) YearMonth {
	return MonthOf(time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0))
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// =============================================================================
// MONTH LABELS
// =============================================================================

var monthLabels = map[Language][12]string{
	LanguageSpanish: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	LanguageEnglish: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// MonthLabel returns the short month name; unknown languages use Spanish.
func MonthLabel(lang Language, month time.Month) string {
	labels, ok := monthLabels[lang]
	if !ok {
		labels = monthLabels[LanguageSpanish]
	}
	return labels[month-1]
}
