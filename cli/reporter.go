package cli

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/horasett/payroll-engine/payroll"
)

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"hours": func(d decimal.Decimal) string { return d.String() },
	"pct":   func(d decimal.Decimal) string { return d.String() + "%" },
}

const summaryTmpl = `Nómina {{.Month}}
{{range .Result.HourLines}}{{printf "%-16s" .Concept}} {{printf "%6s" (hours .Hours)}} h x {{printf "%6s" (money .Rate)}} = {{printf "%9s" (money .Amount)}} €
{{end}}{{printf "%-16s" "Total horas"}} {{printf "%6s" (hours .Result.TotalHours)}} h
Bruto            {{printf "%36s" (money .Result.Gross)}} €
{{range .Result.Deductions}}{{printf "%-16s" .Concept}} {{printf "%6s" (pct .Percentage)}}{{printf "%30s" (money .Amount)}} €
{{end}}Neto             {{printf "%36s" (money .Result.Net)}} €
`

const historyTmpl = `{{printf "%-5s %-4s %8s %10s %10s" "Mes" "Año" "Horas" "Bruto" "Neto"}}
{{range .}}{{printf "%-5s %-4d %8s %10s %10s" .Label .Year (hours .Result.TotalHours) (money .Result.Gross) (money .Result.Net)}}
{{end}}`

const recordsTmpl = `{{if not .}}Sin registros
{{else}}{{printf "%-10s %-7s %6s %6s %6s %6s  %s" "Fecha" "Turno" "Norm." "Noct." "Fest." "Extra" "Notas"}}
{{range .}}{{printf "%-10s %-7s %6s %6s %6s %6s  %s" .Date.String (shift .Shift) (hours .NormalHours) (hours .NightHours) (hours .HolidayHours) (hours .OvertimeHours) .Notes}}
{{end}}{{end}}`

const configTmpl = `Hora normal      {{money .NormalRate}} €
Hora extra       {{money .OvertimeRate}} €
Hora nocturna    {{money .NightRate}} €
Hora festiva     {{money .HolidayRate}} €
IRPF             {{pct .IncomeTaxPct}}
Seguridad Social {{pct .SocialSecurityPct}}
Idioma           {{.Language}}{{if .AutoEnglish}} (auto en){{end}}
`

// Reporter renders command results as plain text.
type Reporter struct {
	writer    io.Writer
	templates *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}

	funcs := template.FuncMap{
		"shift": func(s payroll.Shift) string {
			if s == "" {
				return "-"
			}
			return string(s)
		},
	}
	for name, fn := range templateFuncs {
		funcs[name] = fn
	}

	t := template.New("reports").Funcs(funcs)
	template.Must(t.New("summary").Parse(summaryTmpl))
	template.Must(t.New("history").Parse(historyTmpl))
	template.Must(t.New("records").Parse(recordsTmpl))
	template.Must(t.New("config").Parse(configTmpl))

	return &Reporter{writer: writer, templates: t}
}

func (r *Reporter) render(name string, data any) error {
	if err := r.templates.ExecuteTemplate(r.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// Summary prints one month's salary breakdown.
func (r *Reporter) Summary(month payroll.YearMonth, result payroll.CalculationResult) error {
	return r.render("summary", struct {
		Month  string
		Result payroll.CalculationResult
	}{month.String(), result})
}

func (r *Reporter) History(history []payroll.MonthlySalary) error {
	return r.render("history", history)
}

func (r *Reporter) Records(records []payroll.DailyRecord) error {
	return r.render("records", records)
}

func (r *Reporter) Config(cfg payroll.Config) error {
	return r.render("config", cfg)
}

// Printf writes a one-line message.
func (r *Reporter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.writer, format+"\n", args...)
	return err
}
