package cli

import (
	"github.com/spf13/cobra"

	"github.com/horasett/payroll-engine/payroll"
)

func newShiftCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Weekly default shift, cleared when the week changes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print this week's default shift",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				shift, found, err := cli.svc.Shifts.Default(cmd.Context())
				if err != nil {
					return err
				}
				if !found {
					return cli.reporter.Printf("Sin turno predeterminado")
				}
				return cli.reporter.Printf("%s", shift)
			},
		},
		&cobra.Command{
			Use:   "set SHIFT",
			Short: "Use SHIFT (mañana|tarde|noche) for new records this week",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				shift, err := payroll.ParseShift(args[0])
				if err != nil {
					return err
				}
				if err := cli.svc.Shifts.SetDefault(cmd.Context(), shift); err != nil {
					return err
				}
				return cli.reporter.Printf("Turno predeterminado: %s", shift)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the default shift",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := cli.svc.Shifts.ClearDefault(cmd.Context()); err != nil {
					return err
				}
				return cli.reporter.Printf("Turno predeterminado eliminado")
			},
		},
	)

	return cmd
}
