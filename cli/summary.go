package cli

import (
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	cli   *CLI
	month string
}

func newSummaryCmd(cli *CLI) *cobra.Command {
	sc := &SummaryCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Gross, deductions and net pay for one month",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	cmd.Flags().StringVar(&sc.month, "month", "", "YYYY-MM (default: current month)")
	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ym, err := sc.cli.month(sc.month)
	if err != nil {
		return err
	}
	result, err := sc.cli.svc.Salaries.Month(cmd.Context(), ym)
	if err != nil {
		return err
	}
	return sc.cli.reporter.Summary(ym, result)
}

type HistoryCmd struct {
	cli    *CLI
	months int
}

func newHistoryCmd(cli *CLI) *cobra.Command {
	hc := &HistoryCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Net and gross pay for the last months, oldest first",
		Args:  cobra.NoArgs,
		RunE:  hc.run,
	}
	cmd.Flags().IntVar(&hc.months, "months", 0, "Number of months (default: history_months setting)")
	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	months := hc.months
	if months <= 0 {
		months = hc.cli.settings.HistoryMonths
	}
	lang, err := hc.cli.language(ctx)
	if err != nil {
		return err
	}
	history, err := hc.cli.svc.Salaries.History(ctx, months, lang)
	if err != nil {
		return err
	}
	return hc.cli.reporter.History(history)
}
