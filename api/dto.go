/*
dto.go - Request and response bodies that are not payroll types

PURPOSE:
  Most endpoints return payroll types directly (Config, DailyRecord,
  CalculationResult, Snapshot) because their JSON keys are the storage
  format. The types here cover the few shapes that exist only on the wire.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: DailyRecord JSON keys
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/horasett/payroll-engine/payroll"
)

// RecordRequest is the body of PUT /api/records/{date}. The date comes from
// the URL. Shift accepts Spanish or English names; when empty the weekly
// default shift is used.
type RecordRequest struct {
	NormalHours   decimal.Decimal `json:"horasNormales"`
	NightHours    decimal.Decimal `json:"horasNocturnas"`
	HolidayHours  decimal.Decimal `json:"horasFestivas"`
	OvertimeHours decimal.Decimal `json:"horasExtras"`
	Notes         string          `json:"notas"`
	Shift         string          `json:"turno"`
}

type LanguageResponse struct {
	Language payroll.Language `json:"language"`
}

type ShiftRequest struct {
	Shift string `json:"shift"`
}

type ShiftResponse struct {
	Shift payroll.Shift `json:"shift"`
}

type TotalsResponse struct {
	Month  string             `json:"month"`
	Totals payroll.HourTotals `json:"totals"`
	Total  decimal.Decimal    `json:"totalHoras"`
}

// ScenarioDTO describes a demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
