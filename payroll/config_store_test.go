package payroll_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/store"
)

func TestConfigStore_DefaultsWhenAbsent(t *testing.T) {
	s := payroll.NewConfigStore(store.NewMemory())

	cfg, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, payroll.DefaultConfig().Equal(cfg))
}

func TestConfigStore_PartialStoredConfigMergesPerField(t *testing.T) {
	cases := map[string]string{
		"empty object":  `{}`,
		"one field":     `{"horaNormal": 12}`,
		"quoted number": `{"horaNormal": "12", "irpf": "2"}`,
		"null field":    `{"horaNormal": null, "language": "en"}`,
		"language only": `{"language": "en", "autoEnglish": false}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := store.NewMemory()
			mustSet(t, mem, payroll.KeyConfig, raw)

			cfg, err := payroll.NewConfigStore(mem).Get(context.Background())
			require.NoError(t, err)

			def := payroll.DefaultConfig()
			assert.NotEmpty(t, cfg.Language)
			assertDec(t, def.NightRate.String(), cfg.NightRate, "absent field must equal its default")
			assertDec(t, def.SocialSecurityPct.String(), cfg.SocialSecurityPct)
		})
	}
}

func TestConfigStore_StoredValuesWin(t *testing.T) {
	mem := store.NewMemory()
	mustSet(t, mem, payroll.KeyConfig, `{"horaNormal": 12, "autoEnglish": false}`)

	cfg, err := payroll.NewConfigStore(mem).Get(context.Background())
	require.NoError(t, err)

	assertDec(t, "12", cfg.NormalRate)
	assert.False(t, cfg.AutoEnglish)
	assertDec(t, "15.75", cfg.OvertimeRate)
	assert.Equal(t, payroll.LanguageSpanish, cfg.Language)
}

func TestConfigStore_MalformedFallsBackToDefaults(t *testing.T) {
	for _, raw := range []string{`not json`, `[1,2]`, `"text"`, `{"horaNormal": "abc"}`, `{"language": 5}`} {
		mem := store.NewMemory()
		mustSet(t, mem, payroll.KeyConfig, raw)

		cfg, err := payroll.NewConfigStore(mem).Get(context.Background())
		require.NoError(t, err, raw)
		assert.True(t, payroll.DefaultConfig().Equal(cfg), raw)
	}
}

func TestConfigStore_BackendErrorIsReturned(t *testing.T) {
	s := payroll.NewConfigStore(&failingStorage{Storage: store.NewMemory(), broken: true})

	_, err := s.Get(context.Background())
	require.ErrorIs(t, err, errBackend)
}

func TestConfigStore_SaveNotifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	s := payroll.NewConfigStore(store.NewMemory())

	var topics []payroll.Topic
	unsubscribe := s.Subscribe(func(topic payroll.Topic) { topics = append(topics, topic) })

	cfg := payroll.DefaultConfig()
	cfg.NormalRate = dec("11.25")
	cfg.Language = ""
	require.NoError(t, s.Save(ctx, cfg))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assertDec(t, "11.25", got.NormalRate)
	assert.Equal(t, payroll.LanguageSpanish, got.Language, "blank language is filled from defaults")
	assert.Equal(t, []payroll.Topic{payroll.TopicConfigUpdated}, topics)

	unsubscribe()
	require.NoError(t, s.Reset(ctx))
	assert.Len(t, topics, 1, "no delivery after unsubscribe")

	got, err = s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, payroll.DefaultConfig().Equal(got))
}

func TestConfigStore_UpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	s := payroll.NewConfigStore(store.NewMemory())

	got, err := s.Update(ctx, payroll.ConfigPatch{IncomeTaxPct: decPtr("2"), NightRate: decPtr("14")})
	require.NoError(t, err)
	assertDec(t, "2", got.IncomeTaxPct)
	assertDec(t, "14", got.NightRate)
	assertDec(t, "10.50", got.NormalRate)

	got, err = s.SetLanguage(ctx, payroll.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, payroll.LanguageEnglish, got.Language)
	assertDec(t, "2", got.IncomeTaxPct, "earlier patch is kept")

	got, err = s.SetAutoEnglish(ctx, false)
	require.NoError(t, err)
	assert.False(t, got.AutoEnglish)

	stored, err := s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(stored))
}

func TestConfigPatch_IsEmpty(t *testing.T) {
	assert.True(t, payroll.ConfigPatch{}.IsEmpty())
	assert.False(t, payroll.ConfigPatch{NormalRate: decPtr("1")}.IsEmpty())
}
