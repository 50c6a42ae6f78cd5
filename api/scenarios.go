/*
scenarios.go - Demo datasets for trying the UI and the CLI

PURPOSE:

	Builds snapshots that look like real months of agency work so the
	summary, history and export screens have something to show. Loading a
	scenario goes through Backup.Import, so it replaces everything and
	notifies subscribers exactly like a user import.

AVAILABLE SCENARIOS:

	empty:         Default rates, no records
	full-month:    Every weekday of the current month, 8h morning shift
	night-worker:  Weekday nights plus a worked Sunday (holiday hours)
	half-year:     Six months of mixed shifts with some overtime, for history

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a builder to 'scenarioBuilders'

NOTE:

	Scenarios replace all stored data. Only use on a throwaway store.

SEE ALSO:
  - payroll/backup.go: Import
  - cli/demo.go: Same datasets from the command line
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/horasett/payroll-engine/payroll"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "Default rates and no records",
	},
	{
		ID:          "full-month",
		Name:        "Full Month",
		Description: "Every weekday of the current month, 8 hours on the morning shift",
	},
	{
		ID:          "night-worker",
		Name:        "Night Worker",
		Description: "Weekday nights with a worked Sunday each week",
	},
	{
		ID:          "half-year",
		Name:        "Half Year",
		Description: "Six months of mixed shifts and overtime",
	},
}

type scenarioBuilder func(month payroll.YearMonth) []payroll.DailyRecord

var scenarioBuilders = map[string]scenarioBuilder{
	"empty":        func(payroll.YearMonth) []payroll.DailyRecord { return []payroll.DailyRecord{} },
	"full-month":   buildFullMonth,
	"night-worker": buildNightWorker,
	"half-year":    buildHalfYear,
}

// Scenarios lists the available demo datasets.
func Scenarios() []ScenarioDTO {
	return append([]ScenarioDTO(nil), scenarios...)
}

// ScenarioSnapshot builds the snapshot for scenario id around the month
// containing now, stamped with now as its export date.
func ScenarioSnapshot(id string, now time.Time) (payroll.Snapshot, error) {
	build, ok := scenarioBuilders[id]
	if !ok {
		return payroll.Snapshot{}, fmt.Errorf("unknown scenario: %s", id)
	}

	records := build(payroll.MonthOf(now))
	if records == nil {
		records = []payroll.DailyRecord{}
	}
	return payroll.Snapshot{
		Version:      payroll.SnapshotVersion,
		ExportDate:   now.UTC(),
		Config:       payroll.DefaultConfig(),
		DailyRecords: records,
		Metadata:     payroll.SnapshotMetadata{TotalRecords: len(records)},
	}, nil
}

// LoadScenario replaces the stored data with scenario id, built around the
// current month of svc's clock.
func LoadScenario(ctx context.Context, svc *payroll.Services, id string) error {
	snap, err := ScenarioSnapshot(id, svc.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	return svc.Backup.Import(ctx, bytes.NewReader(data))
}

// =============================================================================
// HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := scenarioBuilders[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	if err := LoadScenario(r.Context(), h.svc, req.ScenarioID); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Scenario loaded",
		"scenario": req.ScenarioID,
	})
}

// =============================================================================
// BUILDERS
// =============================================================================

func buildFullMonth(month payroll.YearMonth) []payroll.DailyRecord {
	var records []payroll.DailyRecord
	for _, d := range daysOf(month) {
		if isWeekend(d) {
			continue
		}
		records = append(records, payroll.DailyRecord{
			Date:        d,
			NormalHours: decimal.NewFromInt(8),
			Shift:       payroll.ShiftMorning,
		})
	}
	return records
}

func buildNightWorker(month payroll.YearMonth) []payroll.DailyRecord {
	var records []payroll.DailyRecord
	for _, d := range daysOf(month) {
		switch d.Time().Weekday() {
		case time.Saturday:
			continue
		case time.Sunday:
			records = append(records, payroll.DailyRecord{
				Date:         d,
				HolidayHours: decimal.NewFromInt(8),
				Shift:        payroll.ShiftNight,
				Notes:        "domingo",
			})
		default:
			records = append(records, payroll.DailyRecord{
				Date:        d,
				NormalHours: decimal.NewFromInt(2),
				NightHours:  decimal.NewFromInt(6),
				Shift:       payroll.ShiftNight,
			})
		}
	}
	return records
}

func buildHalfYear(month payroll.YearMonth) []payroll.DailyRecord {
	shifts := payroll.Shifts
	var records []payroll.DailyRecord
	for back := 5; back >= 0; back-- {
		m := month.AddMonths(-back)
		shift := shifts[back%len(shifts)]
		for i, d := range daysOf(m) {
			if isWeekend(d) {
				continue
			}
			rec := payroll.DailyRecord{
				Date:        d,
				NormalHours: decimal.NewFromInt(8),
				Shift:       shift,
			}
			if shift == payroll.ShiftNight {
				rec.NormalHours = decimal.NewFromInt(2)
				rec.NightHours = decimal.NewFromInt(6)
			}
			if i%5 == 4 {
				rec.OvertimeHours = decimal.RequireFromString("1.5")
			}
			records = append(records, rec)
		}
	}
	return records
}

func daysOf(month payroll.YearMonth) []payroll.Date {
	last := time.Date(month.Year, month.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	days := make([]payroll.Date, 0, last)
	for day := 1; day <= last; day++ {
		days = append(days, payroll.NewDate(month.Year, month.Month, day))
	}
	return days
}

func isWeekend(d payroll.Date) bool {
	wd := d.Time().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
