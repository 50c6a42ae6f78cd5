package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type ExportCmd struct {
	cli    *CLI
	output string
}

func newExportCmd(cli *CLI) *cobra.Command {
	ec := &ExportCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write config and records as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}
	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ec.output == "" {
		return ec.cli.svc.Backup.WriteSnapshot(ctx, ec.cli.opts.Output)
	}

	f, err := os.Create(ec.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ec.output, err)
	}
	if err := ec.cli.svc.Backup.WriteSnapshot(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return ec.cli.reporter.Printf("Exportado a %s", ec.output)
}

func newImportCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace config and records with a snapshot (FILE or - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cli.opts.Input
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			if err := cli.svc.Backup.Import(cmd.Context(), r); err != nil {
				return err
			}
			return cli.reporter.Printf("Datos importados")
		},
	}
}

var errResetNotConfirmed = errors.New("refusing to delete all data without --yes")

type ResetCmd struct {
	cli *CLI
	yes bool
}

func newResetCmd(cli *CLI) *cobra.Command {
	rc := &ResetCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete config, records and shift preferences",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}
	cmd.Flags().BoolVar(&rc.yes, "yes", false, "Confirm deleting everything")
	return cmd
}

func (rc *ResetCmd) run(cmd *cobra.Command, _ []string) error {
	if !rc.yes {
		return errResetNotConfirmed
	}
	if err := rc.cli.svc.Backup.Reset(cmd.Context()); err != nil {
		return err
	}
	return rc.cli.reporter.Printf("Todos los datos eliminados")
}
