package cli

import (
	"github.com/spf13/cobra"

	"github.com/horasett/payroll-engine/api"
)

func newDemoCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Demo datasets (replace all stored data)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List demo datasets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, s := range api.Scenarios() {
					if err := cli.reporter.Printf("%-13s %s", s.ID, s.Description); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "load ID",
			Short: "Replace everything with the demo dataset ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := api.LoadScenario(cmd.Context(), cli.svc, args[0]); err != nil {
					return err
				}
				return cli.reporter.Printf("Demo %s cargada", args[0])
			},
		},
	)

	return cmd
}
