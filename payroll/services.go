package payroll

import "time"

// Services wires every store over a single Storage. Both the HTTP API and
// the CLI build one of these per process.
type Services struct {
	Configs  *ConfigStore
	Records  *RecordStore
	Salaries *MonthlyAggregator
	Backup   *Backup
	Shifts   *ShiftPreferences

	// Now is the clock shared by every store above.
	Now func() time.Time
}

// NewServices builds the stores. A nil clock means time.Now.
func NewServices(storage Storage, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	configs := NewConfigStore(storage)
	records := NewRecordStore(storage, WithClock(now))
	return &Services{
		Configs:  configs,
		Records:  records,
		Salaries: NewMonthlyAggregator(records, configs),
		Backup:   NewBackup(storage, configs, records).WithNow(now),
		Shifts:   NewShiftPreferences(storage).WithNow(now),
		Now:      now,
	}
}
