package payroll

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ShiftPreferences keeps a default shift that lasts until the week changes.
// The shift and the week it was last seen in are stored as plain strings.
type ShiftPreferences struct {
	storage Storage
	mu      sync.Mutex
	now     func() time.Time
}

func NewShiftPreferences(storage Storage) *ShiftPreferences {
	return &ShiftPreferences{storage: storage, now: time.Now}
}

// WithNow overrides the clock. Returns p for chaining.
func (p *ShiftPreferences) WithNow(now func() time.Time) *ShiftPreferences {
	p.now = now
	return p
}

// Default returns the stored default shift for the current week.
// A week number different from the stored one clears the default first.
func (p *ShiftPreferences) Default(ctx context.Context) (Shift, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	week := WeekOfYear(p.now())
	saved, found, err := p.storage.Get(ctx, KeyCurrentWeek)
	if err != nil {
		return "", false, fmt.Errorf("read current week: %w", err)
	}
	if found {
		if n, err := strconv.Atoi(saved); err != nil || n != week {
			if err := p.storage.Remove(ctx, KeyWeeklyDefaultShift); err != nil {
				return "", false, fmt.Errorf("clear default shift: %w", err)
			}
		}
	}
	if err := p.storage.Set(ctx, KeyCurrentWeek, strconv.Itoa(week)); err != nil {
		return "", false, fmt.Errorf("write current week: %w", err)
	}

	raw, found, err := p.storage.Get(ctx, KeyWeeklyDefaultShift)
	if err != nil {
		return "", false, fmt.Errorf("read default shift: %w", err)
	}
	shift := Shift(raw)
	if !found || !shift.Valid() {
		return "", false, nil
	}
	return shift, true, nil
}

// SetDefault stores shift as the default for the current week.
func (p *ShiftPreferences) SetDefault(ctx context.Context, shift Shift) error {
	if !shift.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return withTx(ctx, p.storage, func(st Storage) error {
		if err := st.Set(ctx, KeyWeeklyDefaultShift, string(shift)); err != nil {
			return fmt.Errorf("write default shift: %w", err)
		}
		if err := st.Set(ctx, KeyCurrentWeek, strconv.Itoa(WeekOfYear(p.now()))); err != nil {
			return fmt.Errorf("write current week: %w", err)
		}
		return nil
	})
}

func (p *ShiftPreferences) ClearDefault(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.storage.Remove(ctx, KeyWeeklyDefaultShift); err != nil {
		return fmt.Errorf("clear default shift: %w", err)
	}
	return nil
}

// WeekOfYear numbers weeks from 1, with weeks starting on Sunday and
// week 1 being the one that contains January 1st.
func WeekOfYear(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	return (days+int(jan1.Weekday()))/7 + 1
}
