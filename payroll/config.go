package payroll

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG - Rate table and deduction percentages
// =============================================================================

// Config is always fully populated when returned by a reader.
type Config struct {
	NormalRate        decimal.Decimal `json:"horaNormal"`
	OvertimeRate      decimal.Decimal `json:"horaExtra"`
	NightRate         decimal.Decimal `json:"horaNocturna"`
	HolidayRate       decimal.Decimal `json:"horaFestiva"`
	IncomeTaxPct      decimal.Decimal `json:"irpf"`
	SocialSecurityPct decimal.Decimal `json:"ss"`
	Language          Language        `json:"language"`
	AutoEnglish       bool            `json:"autoEnglish"`
}

// DefaultConfig returns the built-in rate table.
func DefaultConfig() Config {
	return Config{
		NormalRate:        decimal.RequireFromString("10.50"),
		OvertimeRate:      decimal.RequireFromString("15.75"),
		NightRate:         decimal.RequireFromString("13.13"),
		HolidayRate:       decimal.RequireFromString("18.38"),
		IncomeTaxPct:      decimal.NewFromInt(15),
		SocialSecurityPct: decimal.RequireFromString("8.30"),
		Language:          LanguageSpanish,
		AutoEnglish:       true,
	}
}

// normalized fills the only field a typed Config can leave blank.
func (c Config) normalized() Config {
	if c.Language == "" {
		c.Language = DefaultConfig().Language
	}
	return c
}

// =============================================================================
// CONFIG PATCH - Partial config, field-by-field overlay
// =============================================================================

// ConfigPatch is a partial Config. Nil fields keep the base value.
// It is also the decoding shape of persisted config, so a stored object
// missing a field (or holding null) inherits that field's default.
type ConfigPatch struct {
	NormalRate        *decimal.Decimal `json:"horaNormal,omitempty"`
	OvertimeRate      *decimal.Decimal `json:"horaExtra,omitempty"`
	NightRate         *decimal.Decimal `json:"horaNocturna,omitempty"`
	HolidayRate       *decimal.Decimal `json:"horaFestiva,omitempty"`
	IncomeTaxPct      *decimal.Decimal `json:"irpf,omitempty"`
	SocialSecurityPct *decimal.Decimal `json:"ss,omitempty"`
	Language          *Language        `json:"language,omitempty"`
	AutoEnglish       *bool            `json:"autoEnglish,omitempty"`
}

// Apply overlays p onto c, one field at a time.
func (c Config) Apply(p ConfigPatch) Config {
	c.NormalRate = coalesce(p.NormalRate, c.NormalRate)
	c.OvertimeRate = coalesce(p.OvertimeRate, c.OvertimeRate)
	c.NightRate = coalesce(p.NightRate, c.NightRate)
	c.HolidayRate = coalesce(p.HolidayRate, c.HolidayRate)
	c.IncomeTaxPct = coalesce(p.IncomeTaxPct, c.IncomeTaxPct)
	c.SocialSecurityPct = coalesce(p.SocialSecurityPct, c.SocialSecurityPct)
	if p.Language != nil && *p.Language != "" {
		c.Language = *p.Language
	}
	c.AutoEnglish = coalesce(p.AutoEnglish, c.AutoEnglish)
	return c.normalized()
}

func (p ConfigPatch) IsEmpty() bool {
	return p == ConfigPatch{}
}

func coalesce[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

// DecodeConfig merges a stored JSON object over DefaultConfig.
// On malformed input it returns the defaults together with the decode error,
// so callers that must not fail can ignore the error.
func DecodeConfig(data []byte) (Config, error) {
	var p ConfigPatch
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultConfig(), err
	}
	return DefaultConfig().Apply(p), nil
}

// Equal compares by value; 8.3 and 8.30 are equal.
func (c Config) Equal(o Config) bool {
	return c.NormalRate.Equal(o.NormalRate) &&
		c.OvertimeRate.Equal(o.OvertimeRate) &&
		c.NightRate.Equal(o.NightRate) &&
		c.HolidayRate.Equal(o.HolidayRate) &&
		c.IncomeTaxPct.Equal(o.IncomeTaxPct) &&
		c.SocialSecurityPct.Equal(o.SocialSecurityPct) &&
		c.Language == o.Language &&
		c.AutoEnglish == o.AutoEnglish
}
