package payroll

import (
	"context"
	"time"
)

// MonthlySalary is one month of the salary series.
type MonthlySalary struct {
	Label  string            `json:"month"`
	Year   int               `json:"year"`
	Month  time.Month        `json:"monthNumber"`
	Result CalculationResult `json:"result"`
}

// MonthlyAggregator slices records by month and runs Calculate on each
// slice. Every month uses the current config, so a rate change is
// reflected retroactively in past months.
type MonthlyAggregator struct {
	records *RecordStore
	configs *ConfigStore
}

func NewMonthlyAggregator(records *RecordStore, configs *ConfigStore) *MonthlyAggregator {
	return &MonthlyAggregator{records: records, configs: configs}
}

// Month calculates pay for a single calendar month.
func (a *MonthlyAggregator) Month(ctx context.Context, ym YearMonth) (CalculationResult, error) {
	cfg, err := a.configs.Get(ctx)
	if err != nil {
		return CalculationResult{}, err
	}
	records, err := a.records.ByMonth(ctx, ym)
	if err != nil {
		return CalculationResult{}, err
	}
	return Calculate(cfg, records), nil
}

// History returns the trailing months ending with the current month,
// oldest first, labelled in lang.
func (a *MonthlyAggregator) History(ctx context.Context, months int, lang Language) ([]MonthlySalary, error) {
	series := make([]MonthlySalary, 0, max(months, 0))
	if months <= 0 {
		return series, nil
	}

	cfg, err := a.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	records, err := a.records.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, ym := range trailingMonths(a.records.CurrentMonth(), months) {
		series = append(series, MonthlySalary{
			Label:  MonthLabel(lang, ym.Month),
			Year:   ym.Year,
			Month:  ym.Month,
			Result: Calculate(cfg, inMonth(records, ym)),
		})
	}
	return series, nil
}
