/*
backup.go - Snapshot export, validated import, full reset

PURPOSE:
  Moves the whole dataset (config + daily records) in and out as a single
  JSON document, and wipes storage on request.

SNAPSHOT FORMAT (version 1.0):
  {
    "version": "1.0",
    "exportDate": "2025-03-01T10:00:00Z",
    "config": {...},
    "dailyRecords": [...],
    "metadata": {"totalRecords": 2, "dateRange": "2025-01-02 to 2025-01-03"}
  }

IMPORT RULES:
  - version must be a non-empty string
  - config must be present and a JSON object (partial objects are merged
    over the defaults)
  - dailyRecords must be present and an array of valid records
  - a date listed twice keeps its last row ("2025-3-1" equals "2025-03-01")
  Anything else is rejected with an ImportError and storage is untouched.
  Both keys are written inside one WithTx when the backend supports it.

ROUND TRIP:
  Export followed by Import leaves the stored config and records exactly
  as they were.

SEE ALSO:
  - storage.go: TxStorage
  - errors.go: ImportError
*/
package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const SnapshotVersion = "1.0"

// NoDataRange is the metadata date range of an empty export.
const NoDataRange = "Sin datos"

// Snapshot is the export document. Decimal fields are written as JSON
// strings; Import reads either strings or numbers.
type Snapshot struct {
	Version      string           `json:"version"`
	ExportDate   time.Time        `json:"exportDate"`
	Config       Config           `json:"config"`
	DailyRecords []DailyRecord    `json:"dailyRecords"`
	Metadata     SnapshotMetadata `json:"metadata"`
}

type SnapshotMetadata struct {
	TotalRecords int    `json:"totalRecords"`
	DateRange    string `json:"dateRange"`
}

// Backup exports, imports and resets the dataset held by two stores
// sharing one Storage.
type Backup struct {
	storage Storage
	configs *ConfigStore
	records *RecordStore
	now     func() time.Time
}

func NewBackup(storage Storage, configs *ConfigStore, records *RecordStore) *Backup {
	return &Backup{storage: storage, configs: configs, records: records, now: time.Now}
}

// WithNow overrides the clock stamped into exports. Returns b for chaining.
func (b *Backup) WithNow(now func() time.Time) *Backup {
	b.now = now
	return b
}

// =============================================================================
// EXPORT
// =============================================================================

// Export captures the current config and records.
func (b *Backup) Export(ctx context.Context) (Snapshot, error) {
	cfg, err := b.configs.Get(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	records, err := b.records.All(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Version:      SnapshotVersion,
		ExportDate:   b.now().UTC(),
		Config:       cfg,
		DailyRecords: records,
		Metadata: SnapshotMetadata{
			TotalRecords: len(records),
			DateRange:    dateRange(records),
		},
	}, nil
}

// WriteSnapshot exports as indented JSON to w.
func (b *Backup) WriteSnapshot(ctx context.Context, w io.Writer) error {
	snap, err := b.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// dateRange uses stored order: first and last element, not min and max.
func dateRange(records []DailyRecord) string {
	if len(records) == 0 {
		return NoDataRange
	}
	return fmt.Sprintf("%s to %s", records[0].Date, records[len(records)-1].Date)
}

// =============================================================================
// IMPORT
// =============================================================================

// Import validates a snapshot and replaces config and records with it.
func (b *Backup) Import(ctx context.Context, r io.Reader) error {
	cfg, records, err := parseSnapshot(r)
	if err != nil {
		return err
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	recordsJSON, err := encodeRecords(records)
	if err != nil {
		return err
	}

	b.configs.mu.Lock()
	b.records.mu.Lock()
	err = withTx(ctx, b.storage, func(st Storage) error {
		if err := st.Set(ctx, KeyConfig, string(cfgJSON)); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		if err := st.Set(ctx, KeyDailyRecords, recordsJSON); err != nil {
			return fmt.Errorf("write daily records: %w", err)
		}
		return nil
	})
	b.records.mu.Unlock()
	b.configs.mu.Unlock()
	if err != nil {
		return err
	}

	b.configs.events.Publish(TopicConfigUpdated)
	b.records.events.Publish(TopicRecordsUpdated)
	return nil
}

func parseSnapshot(r io.Reader) (Config, []DailyRecord, error) {
	var doc struct {
		Version      *string         `json:"version"`
		Config       json.RawMessage `json:"config"`
		DailyRecords json.RawMessage `json:"dailyRecords"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Config{}, nil, &ImportError{Reason: "not a JSON object: " + err.Error()}
	}

	if doc.Version == nil || *doc.Version == "" {
		return Config{}, nil, &ImportError{Field: "version", Reason: "is missing"}
	}
	if isAbsent(doc.Config) {
		return Config{}, nil, &ImportError{Field: "config", Reason: "is missing"}
	}
	if isAbsent(doc.DailyRecords) {
		return Config{}, nil, &ImportError{Field: "dailyRecords", Reason: "is missing"}
	}

	var patch ConfigPatch
	if err := json.Unmarshal(doc.Config, &patch); err != nil {
		return Config{}, nil, &ImportError{Field: "config", Reason: "is malformed: " + err.Error()}
	}

	var records []DailyRecord
	if err := json.Unmarshal(doc.DailyRecords, &records); err != nil {
		return Config{}, nil, &ImportError{Field: "dailyRecords", Reason: "is malformed: " + err.Error()}
	}
	for i, rec := range records {
		if rec.Date.IsZero() {
			return Config{}, nil, &ImportError{Field: "dailyRecords", Reason: fmt.Sprintf("element %d has no date", i)}
		}
	}

	return DefaultConfig().Apply(patch), collapseByDate(records), nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// =============================================================================
// RESET
// =============================================================================

// Reset removes every stored key, including shift preferences.
func (b *Backup) Reset(ctx context.Context) error {
	b.configs.mu.Lock()
	b.records.mu.Lock()
	err := b.storage.Clear(ctx)
	b.records.mu.Unlock()
	b.configs.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}

	b.configs.events.Publish(TopicConfigUpdated)
	b.records.events.Publish(TopicRecordsUpdated)
	return nil
}
