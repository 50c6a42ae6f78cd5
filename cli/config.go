package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/horasett/payroll-engine/payroll"
)

func newConfigCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change rates, deductions and language",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.svc.Configs.Get(cmd.Context())
			if err != nil {
				return err
			}
			return cli.reporter.Config(cfg)
		},
	})
	cmd.AddCommand(newConfigSetCmd(cli))
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.svc.Configs.Reset(cmd.Context()); err != nil {
				return err
			}
			return cli.reporter.Config(payroll.DefaultConfig())
		},
	})

	return cmd
}

type ConfigSetCmd struct {
	cli         *CLI
	rates       map[string]*string
	language    string
	autoEnglish bool
}

// decimal flags of `config set`, in display order
var configRateFlags = []struct {
	name  string
	usage string
	field func(*payroll.ConfigPatch) **decimal.Decimal
}{
	{"normal-rate", "€ per normal hour", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.NormalRate }},
	{"overtime-rate", "€ per overtime hour", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.OvertimeRate }},
	{"night-rate", "€ per night hour", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.NightRate }},
	{"holiday-rate", "€ per holiday hour", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.HolidayRate }},
	{"irpf", "Income tax withholding, percent", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.IncomeTaxPct }},
	{"ss", "Social security, percent", func(p *payroll.ConfigPatch) **decimal.Decimal { return &p.SocialSecurityPct }},
}

func newConfigSetCmd(cli *CLI) *cobra.Command {
	sc := &ConfigSetCmd{cli: cli, rates: map[string]*string{}}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change only the given fields",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	for _, f := range configRateFlags {
		sc.rates[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().StringVar(&sc.language, "language", "", "es or en")
	cmd.Flags().BoolVar(&sc.autoEnglish, "auto-english", true, "Switch to English for non-Spanish locales")

	return cmd
}

func (sc *ConfigSetCmd) run(cmd *cobra.Command, _ []string) error {
	var patch payroll.ConfigPatch
	for _, f := range configRateFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		d, err := decimal.NewFromString(*sc.rates[f.name])
		if err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.field(&patch) = &d
	}

	if cmd.Flags().Changed("language") {
		lang := payroll.Language(sc.language)
		if lang != payroll.LanguageSpanish && lang != payroll.LanguageEnglish {
			return fmt.Errorf("--language: must be es or en, got %q", sc.language)
		}
		patch.Language = &lang
	}
	if cmd.Flags().Changed("auto-english") {
		patch.AutoEnglish = &sc.autoEnglish
	}

	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one flag")
	}

	cfg, err := sc.cli.svc.Configs.Update(cmd.Context(), patch)
	if err != nil {
		return err
	}
	return sc.cli.reporter.Config(cfg)
}
