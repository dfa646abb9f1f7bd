package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/luxegem-ledger/internal/domain/billing"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

func newInvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Manage the local invoice mirror",
	}
	cmd.AddCommand(newInvoicesLoadCmd(), newInvoicesStatsCmd())
	return cmd
}

func newInvoicesLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <invoices.json>",
		Short: "Mirror invoices exported by the invoicing service",
		Long: `Insert or replace invoices from a JSON array exported by the invoicing service.

Each invoice's stored gross and net amounts are checked against its line
items; mismatches are reported. With --strict a mismatch aborts the load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read invoices file: %w", err)
			}
			var invoices []entity.Invoice
			if err := json.Unmarshal(raw, &invoices); err != nil {
				return fmt.Errorf("failed to parse invoices file: %w", err)
			}

			out := cmd.OutOrStdout()
			mismatches := 0
			for _, inv := range invoices {
				if err := billing.CheckInvoice(inv); err != nil {
					mismatches++
					fmt.Fprintf(out, "warning: %v\n", err)
					if strict && errors.Is(err, billing.ErrAmountMismatch) {
						return err
					}
				}
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.c.Repositories().Invoices.Upsert(ctx, invoices); err != nil {
				return err
			}
			total, err := a.c.Repositories().Invoices.Count(ctx)
			if err != nil {
				return err
			}

			a.logger.Info("Invoices loaded",
				zap.Int("loaded", len(invoices)),
				zap.Int("mismatches", mismatches))
			_, err = fmt.Fprintf(out, "loaded %d invoices, %d in mirror\n", len(invoices), total)
			return err
		},
	}
	cmd.Flags().Bool("strict", false, "Abort when stored amounts disagree with line items")
	return cmd
}

func newInvoicesStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show billing dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.c.Services().Billing.Stats(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Invoices\t%d\n", stats.TotalInvoices)
			fmt.Fprintf(w, "Paid / pending / draft\t%d / %d / %d\n", stats.PaidInvoices, stats.PendingInvoices, stats.DraftInvoices)
			fmt.Fprintf(w, "Revenue\t%s\n", stats.TotalRevenue)
			fmt.Fprintf(w, "Pending amount\t%s\n", stats.PendingAmount)
			fmt.Fprintf(w, "Average order value\t%s\n", stats.AverageOrderValue)
			fmt.Fprintf(w, "Conversion rate\t%s%%\n", stats.ConversionRate.StringFixed(2))
			return w.Flush()
		},
	}
}
