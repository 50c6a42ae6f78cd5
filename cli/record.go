package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/horasett/payroll-engine/payroll"
)

func newRecordCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Save, show and delete daily records",
	}
	cmd.AddCommand(
		newRecordSaveCmd(cli),
		newRecordGetCmd(cli),
		newRecordDeleteCmd(cli),
		newRecordListCmd(cli),
	)
	return cmd
}

// =============================================================================
// record save
// =============================================================================

type RecordSaveCmd struct {
	cli      *CLI
	normal   string
	night    string
	holiday  string
	overtime string
	shift    string
	notes    string
}

func newRecordSaveCmd(cli *CLI) *cobra.Command {
	rc := &RecordSaveCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "save DATE",
		Short: "Create or replace the record for DATE (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.normal, "normal", "0", "Normal hours")
	cmd.Flags().StringVar(&rc.night, "night", "0", "Night hours")
	cmd.Flags().StringVar(&rc.holiday, "holiday", "0", "Holiday hours")
	cmd.Flags().StringVar(&rc.overtime, "overtime", "0", "Overtime hours")
	cmd.Flags().StringVar(&rc.shift, "shift", "", "mañana|tarde|noche (default: this week's default shift)")
	cmd.Flags().StringVar(&rc.notes, "notes", "", "Free text")

	return cmd
}

func (rc *RecordSaveCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := rc.cli.svc

	date, err := payroll.ParseDate(args[0])
	if err != nil {
		return err
	}

	rec := payroll.DailyRecord{Date: date, Notes: rc.notes}
	for _, h := range []struct {
		flag  string
		value string
		dst   *decimal.Decimal
	}{
		{"normal", rc.normal, &rec.NormalHours},
		{"night", rc.night, &rec.NightHours},
		{"holiday", rc.holiday, &rec.HolidayHours},
		{"overtime", rc.overtime, &rec.OvertimeHours},
	} {
		d, err := decimal.NewFromString(h.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", h.flag, err)
		}
		*h.dst = d
	}

	if rc.shift != "" {
		if rec.Shift, err = payroll.ParseShift(rc.shift); err != nil {
			return err
		}
	} else if rec.Shift, _, err = svc.Shifts.Default(ctx); err != nil {
		return err
	}

	if err := payroll.ValidateEntry(rec); err != nil {
		return err
	}
	if err := svc.Records.Save(ctx, rec); err != nil {
		return err
	}
	return rc.cli.reporter.Printf("Guardado %s: %sh (%s)", date, rec.TotalHours(), rec.Shift)
}

// =============================================================================
// record get / delete / list
// =============================================================================

func newRecordGetCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "get DATE",
		Short: "Show the record for DATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := payroll.ParseDate(args[0])
			if err != nil {
				return err
			}
			rec, err := cli.svc.Records.ByDate(cmd.Context(), date)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no record for %s", date)
			}
			return cli.reporter.Records([]payroll.DailyRecord{*rec})
		},
	}
}

func newRecordDeleteCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE",
		Short: "Delete the record for DATE (no error if there is none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := payroll.ParseDate(args[0])
			if err != nil {
				return err
			}
			if err := cli.svc.Records.Delete(cmd.Context(), date); err != nil {
				return err
			}
			return cli.reporter.Printf("Eliminado %s", date)
		},
	}
}

type RecordListCmd struct {
	cli   *CLI
	month string
	all   bool
}

func newRecordListCmd(cli *CLI) *cobra.Command {
	lc := &RecordListCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records of a month",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}
	cmd.Flags().StringVar(&lc.month, "month", "", "YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&lc.all, "all", false, "List every stored record")
	return cmd
}

func (lc *RecordListCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	records := lc.cli.svc.Records

	if lc.all {
		all, err := records.All(ctx)
		if err != nil {
			return err
		}
		return lc.cli.reporter.Records(all)
	}

	ym, err := lc.cli.month(lc.month)
	if err != nil {
		return err
	}
	month, err := records.ByMonth(ctx, ym)
	if err != nil {
		return err
	}
	return lc.cli.reporter.Records(month)
}

// month parses a --month flag value, defaulting to the current month.
func (cli *CLI) month(raw string) (payroll.YearMonth, error) {
	if raw == "" {
		return cli.svc.Records.CurrentMonth(), nil
	}
	return payroll.ParseYearMonth(raw)
}
