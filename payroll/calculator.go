/*
calculator.go - Gross, deductions and net pay for a set of daily records

PURPOSE:
  Pure function from (Config, []DailyRecord) to a CalculationResult.
  No storage, no clock, no validation: every input produces a result.

ALGORITHM:
  1. Fold the four hour categories across the records.
  2. Multiply each total by its rate.
  3. Gross = sum of the four amounts.
  4. IRPF = gross * irpf%, SS = gross * ss%. Both use gross, neither
     depends on the other.
  5. Net = gross - IRPF - SS.

PRECISION:
  Decimal arithmetic end to end; nothing is rounded here. Presentation
  layers round to cents (see StringFixed(2) in the CLI reporter).

ROW ORDER:
  Hour lines are always normal, overtime, night, holiday, even when a
  category is zero. Deduction lines are always IRPF then SS. The chart
  always has three slices: Neto, IRPF, Seg. Social.

EXAMPLE:
  res := payroll.Calculate(cfg, records)
  fmt.Println(res.Net.StringFixed(2))
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

const (
	ConceptNormal         = "Horas Normales"
	ConceptOvertime       = "Horas Extra"
	ConceptNight          = "Horas Nocturnas"
	ConceptHoliday        = "Horas Festivas"
	ConceptIncomeTax      = "IRPF"
	ConceptSocialSecurity = "Seguridad Social"

	SliceNet            = "Neto"
	SliceIncomeTax      = "IRPF"
	SliceSocialSecurity = "Seg. Social"
)

// HourLine is one row of the per-category breakdown.
type HourLine struct {
	Concept string          `json:"concepto"`
	Hours   decimal.Decimal `json:"horas"`
	Rate    decimal.Decimal `json:"tarifa"`
	Amount  decimal.Decimal `json:"importe"`
}

// DeductionLine is one withheld amount.
type DeductionLine struct {
	Concept    string          `json:"concepto"`
	Percentage decimal.Decimal `json:"porcentaje"`
	Amount     decimal.Decimal `json:"importe"`
}

// ChartSlice is one wedge of the net/IRPF/SS split.
type ChartSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// CalculationResult is derived only; it is never persisted.
type CalculationResult struct {
	TotalHours    decimal.Decimal `json:"totalHoras"`
	NormalHours   decimal.Decimal `json:"horasNormales"`
	OvertimeHours decimal.Decimal `json:"horasExtra"`
	NightHours    decimal.Decimal `json:"horasNocturnas"`
	HolidayHours  decimal.Decimal `json:"horasFestivas"`

	Gross          decimal.Decimal `json:"bruto"`
	IncomeTax      decimal.Decimal `json:"irpf"`
	SocialSecurity decimal.Decimal `json:"ss"`
	Net            decimal.Decimal `json:"neto"`

	HourLines  []HourLine      `json:"detalleHoras"`
	Deductions []DeductionLine `json:"detalleDeducciones"`
	Chart      []ChartSlice    `json:"chartData"`
}

// Calculate computes pay for records under cfg.
func Calculate(cfg Config, records []DailyRecord) CalculationResult {
	totals := SumHours(records)

	lines := []HourLine{
		hourLine(ConceptNormal, totals.Normal, cfg.NormalRate),
		hourLine(ConceptOvertime, totals.Overtime, cfg.OvertimeRate),
		hourLine(ConceptNight, totals.Night, cfg.NightRate),
		hourLine(ConceptHoliday, totals.Holiday, cfg.HolidayRate),
	}

	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.Amount)
	}

	irpf := percentOf(gross, cfg.IncomeTaxPct)
	ss := percentOf(gross, cfg.SocialSecurityPct)
	net := gross.Sub(irpf).Sub(ss)

	return CalculationResult{
		TotalHours:    totals.Total(),
		NormalHours:   totals.Normal,
		OvertimeHours: totals.Overtime,
		NightHours:    totals.Night,
		HolidayHours:  totals.Holiday,

		Gross:          gross,
		IncomeTax:      irpf,
		SocialSecurity: ss,
		Net:            net,

		HourLines: lines,
		Deductions: []DeductionLine{
			{Concept: ConceptIncomeTax, Percentage: cfg.IncomeTaxPct, Amount: irpf},
			{Concept: ConceptSocialSecurity, Percentage: cfg.SocialSecurityPct, Amount: ss},
		},
		Chart: []ChartSlice{
			{Name: SliceNet, Value: net, Color: "hsl(var(--accent))"},
			{Name: SliceIncomeTax, Value: irpf, Color: "hsl(var(--warning))"},
			{Name: SliceSocialSecurity, Value: ss, Color: "hsl(var(--destructive))"},
		},
	}
}

func hourLine(concept string, hours, rate decimal.Decimal) HourLine {
	return HourLine{Concept: concept, Hours: hours, Rate: rate, Amount: hours.Mul(rate)}
}

// percentOf is exact: Shift(-2) moves the decimal point instead of dividing.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}
