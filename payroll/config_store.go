package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// =============================================================================
// CONFIG STORE
// =============================================================================

// ConfigStore persists the rate table under KeyConfig.
// Readers always get a complete Config: whatever is stored is merged
// field-by-field over DefaultConfig, and unreadable data means defaults.
type ConfigStore struct {
	storage Storage
	mu      sync.Mutex
	events  Broadcaster
}

func NewConfigStore(storage Storage) *ConfigStore {
	return &ConfigStore{storage: storage}
}

// Get returns the effective config. Only backend failures are errors.
func (s *ConfigStore) Get(ctx context.Context) (Config, error) {
	raw, found, err := s.storage.Get(ctx, KeyConfig)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}
	if !found {
		return DefaultConfig(), nil
	}

	cfg, err := DecodeConfig([]byte(raw))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("stored config is malformed, using defaults")
	}
	return cfg, nil
}

// Save persists cfg over the defaults and notifies subscribers.
func (s *ConfigStore) Save(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	err := s.write(ctx, s.storage, cfg.normalized())
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.Publish(TopicConfigUpdated)
	return nil
}

// Update overlays patch onto the current config and returns the result.
func (s *ConfigStore) Update(ctx context.Context, patch ConfigPatch) (Config, error) {
	s.mu.Lock()
	current, err := s.Get(ctx)
	if err != nil {
		s.mu.Unlock()
		return Config{}, err
	}
	next := current.Apply(patch)
	err = s.write(ctx, s.storage, next)
	s.mu.Unlock()
	if err != nil {
		return Config{}, err
	}

	s.events.Publish(TopicConfigUpdated)
	return next, nil
}

// Reset writes the defaults.
func (s *ConfigStore) Reset(ctx context.Context) error {
	return s.Save(ctx, DefaultConfig())
}

func (s *ConfigStore) SetLanguage(ctx context.Context, lang Language) (Config, error) {
	return s.Update(ctx, ConfigPatch{Language: &lang})
}

func (s *ConfigStore) SetAutoEnglish(ctx context.Context, enabled bool) (Config, error) {
	return s.Update(ctx, ConfigPatch{AutoEnglish: &enabled})
}

// Subscribe registers fn for TopicConfigUpdated.
func (s *ConfigStore) Subscribe(fn Listener) func() {
	return s.events.Subscribe(fn)
}

func (s *ConfigStore) write(ctx context.Context, st Storage, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := st.Set(ctx, KeyConfig, string(data)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
