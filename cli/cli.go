/*
cli.go - Command-line interface for horasett

PURPOSE:
  One binary for both ways of using the engine: `horasett serve` runs the
  HTTP API, every other command works directly on the configured store.

COMMANDS:
  serve                          HTTP API (api package)
  record save|get|delete|list    Daily records
  summary                        Salary for one month
  history                        Salary per month
  config show|set|reset          Rates, deductions, language
  shift show|set|clear           Weekly default shift
  export | import | reset        Backup and wipe
  demo list|load                 Demo datasets

LIFECYCLE:
  PersistentPreRunE loads settings (viper), builds the zerolog logger and
  opens the store. Run closes it whether or not the command failed.
  Options.Storage replaces the configured store, which is how tests run
  every command in memory.

SEE ALSO:
  - settings/settings.go: Keys, defaults and precedence
  - reporter.go: Text output
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/settings"
)

// CLI represents the command-line interface
type CLI struct {
	opts     Options
	reporter *Reporter
	rootCmd  *cobra.Command

	configFile string
	settings   settings.Settings
	logger     zerolog.Logger
	svc        *payroll.Services
	closeStore func() error
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	ErrOutput io.Writer // logs
	Input     io.Reader // `import -`

	// Storage, when set, is used instead of the store named in settings.
	Storage payroll.TxStorage
	Now     func() time.Time
	// Locale picks the report language together with the stored config.
	// Defaults to $LANG.
	Locale string
	// OnListen is called with the bound address once serve accepts
	// connections.
	OnListen func(addr string)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Locale == "" {
		opts.Locale = os.Getenv("LANG")
	}

	cli := &CLI{
		opts:     opts,
		reporter: NewReporter(opts.Output),
		logger:   zerolog.Nop(),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Run executes the command line args (without the program name).
func (cli *CLI) Run(ctx context.Context, args []string) error {
	cli.rootCmd.SetArgs(args)
	err := cli.rootCmd.ExecuteContext(ctx)
	if cerr := cli.closeStorage(); err == nil {
		err = cerr
	}
	return err
}

// flagKeys maps flag names to the settings keys they override.
var flagKeys = map[string]string{
	"store":        settings.KeyStore,
	"sqlite-path":  settings.KeySQLitePath,
	"postgres-dsn": settings.KeyPostgresDSN,
	"log-level":    settings.KeyLogLevel,
	"log-format":   settings.KeyLogFormat,
	"addr":         settings.KeyAddr,
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "horasett",
		Short:         "Hours and net pay for temp agency workers",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.setup(cmd)
		},
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.ErrOutput)
	cmd.SetIn(cli.opts.Input)

	// Flag defaults are empty so that settings defaults, the config file and
	// the environment are not shadowed by an unset flag.
	pf := cmd.PersistentFlags()
	pf.StringVarP(&cli.configFile, "config", "c", "", "Path to a settings file (yaml, json or toml)")
	pf.String("store", "", "Storage backend: sqlite, postgres or memory (default sqlite)")
	pf.String("sqlite-path", "", "SQLite database file (default horasett.db)")
	pf.String("postgres-dsn", "", "PostgreSQL connection string")
	pf.String("log-level", "", "Log level (default info)")
	pf.String("log-format", "", "Log format: console or json (default console)")

	cmd.AddCommand(
		newServeCmd(cli),
		newRecordCmd(cli),
		newSummaryCmd(cli),
		newHistoryCmd(cli),
		newConfigCmd(cli),
		newShiftCmd(cli),
		newExportCmd(cli),
		newImportCmd(cli),
		newResetCmd(cli),
		newDemoCmd(cli),
	)

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command) error {
	v, err := settings.NewViper(cli.configFile)
	if err != nil {
		return err
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	cli.settings, err = settings.FromViper(v)
	if err != nil {
		return err
	}

	cli.logger = newLogger(cli.opts.ErrOutput, cli.settings)
	ctx := cli.logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	storage, closeStore, err := openStorage(ctx, cli.settings, cli.opts.Storage)
	if err != nil {
		return err
	}
	cli.closeStore = closeStore
	cli.svc = payroll.NewServices(storage, cli.opts.Now)

	cli.logger.Debug().Str("store", cli.settings.Store).Msg("storage ready")
	return nil
}

func (cli *CLI) closeStorage() error {
	if cli.closeStore == nil {
		return nil
	}
	err := cli.closeStore()
	cli.closeStore = nil
	return err
}

// language picks the report language from the stored config and locale.
func (cli *CLI) language(ctx context.Context) (payroll.Language, error) {
	cfg, err := cli.svc.Configs.Get(ctx)
	if err != nil {
		return "", err
	}
	return payroll.ResolveLanguage(cfg, cli.opts.Locale), nil
}

func newLogger(w io.Writer, s settings.Settings) zerolog.Logger {
	if s.LogFormat == settings.FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(s.Level()).With().Timestamp().Logger()
}
