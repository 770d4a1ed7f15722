package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/models"
)

func (a *app) newProcessMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-month [YYYY-MM]",
		Short: "Close out a billing month (default: the previous month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := models.MonthOf(time.Now().UTC()).Prev()
			if len(args) == 1 {
				var err error
				if month, err = models.ParseMonth(args[0]); err != nil {
					return err
				}
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			result, err := b.ledger.ProcessMonth(cmd.Context(), month)
			if result != nil {
				printBillingResult(cmd.OutOrStdout(), result)
			}
			return err
		},
	}
}

func (a *app) newReopenMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen-month YYYY-MM",
		Short: "Unlock a processed month so its dates can be edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := models.ParseMonth(args[0])
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			bm, err := b.ledger.ReopenMonth(cmd.Context(), month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", bm.Month, bm.Status)
			return nil
		},
	}
}

func printBillingResult(w io.Writer, result *ledger.BillingResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tOPENING\tDEPOSIT\tCONSUMED\tCLOSING\tDUE\tSTATUS")
	for _, s := range result.Snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.MemberID,
			s.OpeningBalance.StringFixed(models.CentPlaces),
			s.MonthlyDeposit.StringFixed(models.CentPlaces),
			s.TotalConsumption.StringFixed(models.CentPlaces),
			s.ClosingBalance.StringFixed(models.CentPlaces),
			s.DueAmount.StringFixed(models.CentPlaces),
			s.PaymentStatus,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "%s: %d processed, %d failed\n", result.Month, len(result.Snapshots), len(result.FailedMemberIDs))
	for _, id := range result.FailedMemberIDs {
		fmt.Fprintf(w, "  %s: %s\n", id, result.Errors[id])
	}
}
