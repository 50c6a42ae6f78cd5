/*
record_store.go - Daily record collection keyed by calendar date

PURPOSE:
  Owns the KeyDailyRecords collection: one record per date, insertion
  order preserved, upsert on save.

UNIQUENESS INVARIANT:
  At most one record per Date. Save replaces an existing record in its
  original position; a new date is appended at the end.

READ RECOVERY:
  - Key absent                 -> empty collection
  - Not a JSON array           -> empty collection (warn)
  - One element undecodable    -> that element skipped (warn)
  - Element without a date     -> skipped (warn)
  - Date repeated              -> last row wins, first position (warn)
  Missing hour fields decode as zero.

MONTH QUERIES:
  Filtering compares the parsed year and month of each Date. Records are
  parsed once per read.

CONCURRENCY:
  Mutations are read-modify-write on a single key and serialize on mu.
  Notifications are published after the lock is released.

SEE ALSO:
  - aggregator.go: per-month salary series built from these records
  - backup.go: replaces the whole collection on import
*/
package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultHistoryMonths is the trailing window used when callers pass none.
const DefaultHistoryMonths = 6

// MonthHistory is one month of folded hours.
type MonthHistory struct {
	Label  string     `json:"month"`
	Year   int        `json:"year"`
	Month  time.Month `json:"monthNumber"`
	Totals HourTotals `json:"totals"`
}

// RecordStore persists DailyRecords under KeyDailyRecords.
type RecordStore struct {
	storage Storage
	mu      sync.Mutex
	events  Broadcaster
	now     func() time.Time
}

// RecordStoreOption configures a RecordStore.
type RecordStoreOption func(*RecordStore)

// WithClock overrides the clock used for "current month" queries.
func WithClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) { s.now = now }
}

func NewRecordStore(storage Storage, opts ...RecordStoreOption) *RecordStore {
	s := &RecordStore{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// READS
// =============================================================================

// All returns every record in insertion order. Never nil.
func (s *RecordStore) All(ctx context.Context) ([]DailyRecord, error) {
	return s.load(ctx, s.storage)
}

// ByDate returns the record for date, or nil if there is none.
func (s *RecordStore) ByDate(ctx context.Context, date Date) (*DailyRecord, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Date == date {
			return &records[i], nil
		}
	}
	return nil, nil
}

// ByMonth returns the records of one calendar month in insertion order.
func (s *RecordStore) ByMonth(ctx context.Context, ym YearMonth) ([]DailyRecord, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return inMonth(records, ym), nil
}

// MonthlyTotals folds the hours of one calendar month.
func (s *RecordStore) MonthlyTotals(ctx context.Context, year int, month time.Month) (HourTotals, error) {
	records, err := s.ByMonth(ctx, YearMonth{Year: year, Month: month})
	if err != nil {
		return HourTotals{}, err
	}
	return SumHours(records), nil
}

// MonthlyHistory returns the trailing monthsBack months ending with the
// current month, oldest first. Months without records are included with
// zero totals. monthsBack <= 0 yields an empty slice.
func (s *RecordStore) MonthlyHistory(ctx context.Context, monthsBack int) ([]MonthHistory, error) {
	history := make([]MonthHistory, 0, max(monthsBack, 0))
	if monthsBack <= 0 {
		return history, nil
	}

	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, ym := range trailingMonths(s.CurrentMonth(), monthsBack) {
		history = append(history, MonthHistory{
			Label:  MonthLabel(LanguageSpanish, ym.Month),
			Year:   ym.Year,
			Month:  ym.Month,
			Totals: SumHours(inMonth(records, ym)),
		})
	}
	return history, nil
}

// CurrentMonth is the month containing the store's clock.
func (s *RecordStore) CurrentMonth() YearMonth {
	return MonthOf(s.now())
}

// =============================================================================
// WRITES
// =============================================================================

// Save inserts record, or replaces the one with the same date in place.
func (s *RecordStore) Save(ctx context.Context, record DailyRecord) error {
	s.mu.Lock()
	records, err := s.load(ctx, s.storage)
	if err == nil {
		replaced := false
		for i := range records {
			if records[i].Date == record.Date {
				records[i] = record
				replaced = true
				break
			}
		}
		if !replaced {
			records = append(records, record)
		}
		err = s.write(ctx, s.storage, records)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.Publish(TopicRecordsUpdated)
	return nil
}

// Delete removes the record for date. A missing date is a no-op and
// publishes nothing.
func (s *RecordStore) Delete(ctx context.Context, date Date) error {
	s.mu.Lock()
	records, err := s.load(ctx, s.storage)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.Date != date {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		s.mu.Unlock()
		return nil
	}
	err = s.write(ctx, s.storage, kept)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.Publish(TopicRecordsUpdated)
	return nil
}

// Subscribe registers fn for TopicRecordsUpdated.
func (s *RecordStore) Subscribe(fn Listener) func() {
	return s.events.Subscribe(fn)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *RecordStore) load(ctx context.Context, st Storage) ([]DailyRecord, error) {
	raw, found, err := st.Get(ctx, KeyDailyRecords)
	if err != nil {
		return nil, fmt.Errorf("read daily records: %w", err)
	}
	if !found {
		return []DailyRecord{}, nil
	}
	return decodeRecords(ctx, []byte(raw)), nil
}

func (s *RecordStore) write(ctx context.Context, st Storage, records []DailyRecord) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, KeyDailyRecords, data); err != nil {
		return fmt.Errorf("write daily records: %w", err)
	}
	return nil
}

func decodeRecords(ctx context.Context, data []byte) []DailyRecord {
	log := zerolog.Ctx(ctx)

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		log.Warn().Err(err).Msg("stored daily records are malformed, treating as empty")
		return []DailyRecord{}
	}

	records := make([]DailyRecord, 0, len(elems))
	for i, elem := range elems {
		var r DailyRecord
		if err := json.Unmarshal(elem, &r); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping malformed daily record")
			continue
		}
		if r.Date.IsZero() {
			log.Warn().Int("index", i).Msg("skipping daily record without date")
			continue
		}
		records = append(records, r)
	}

	collapsed := collapseByDate(records)
	if n := len(records) - len(collapsed); n > 0 {
		log.Warn().Int("duplicates", n).Msg("collapsing daily records with repeated dates")
	}
	return collapsed
}

// collapseByDate keeps one record per date: the last one seen, placed at
// the position of the first.
func collapseByDate(records []DailyRecord) []DailyRecord {
	pos := make(map[Date]int, len(records))
	out := make([]DailyRecord, 0, len(records))
	for _, r := range records {
		if i, ok := pos[r.Date]; ok {
			out[i] = r
			continue
		}
		pos[r.Date] = len(out)
		out = append(out, r)
	}
	return out
}

func encodeRecords(records []DailyRecord) (string, error) {
	if records == nil {
		records = []DailyRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode daily records: %w", err)
	}
	return string(data), nil
}

func inMonth(records []DailyRecord, ym YearMonth) []DailyRecord {
	out := []DailyRecord{}
	for _, r := range records {
		if r.Date.InMonth(ym) {
			out = append(out, r)
		}
	}
	return out
}

// trailingMonths returns n months ending at last, oldest first.
func trailingMonths(last YearMonth, n int) []YearMonth {
	months := make([]YearMonth, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, last.AddMonths(-i))
	}
	return months
}
