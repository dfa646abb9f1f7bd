package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/garyjia/luxegem-ledger/internal/domain/billing"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a single line item",
		Long: `Compute the base amount, making charge, GST and total for one line item.

Every amount is rounded half-up to paise as it is computed.`,
		Example: `  # 10 g of 22K gold at 6000/g, 10% making charge, 3% GST
  ledgerctl quote --weight 10 --rate 6000 --making 10 --gst 3

  # Same item with a 100 rupee discount, as JSON
  ledgerctl quote --weight 10 --rate 6000 --making 10 --gst 3 --discount 100 --json`,
		Args: cobra.NoArgs,
		RunE: runQuote,
	}

	cmd.Flags().String("description", "", "Item description")
	cmd.Flags().String("metal", "", "Metal type (GOLD_24K, GOLD_22K, GOLD_18K, SILVER, PLATINUM, DIAMOND, OTHER)")
	cmd.Flags().Float64("weight", 0, "Weight in grams")
	cmd.Flags().Float64("rate", 0, "Rate per gram in rupees")
	cmd.Flags().Float64("making", 0, "Making charge percent")
	cmd.Flags().Float64("gst", 3, "GST percent")
	cmd.Flags().String("discount", "0", "Discount in rupees")
	cmd.Flags().Bool("json", false, "Print the breakdown as JSON")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	item := entity.LineItem{}
	item.Description, _ = cmd.Flags().GetString("description")
	metal, _ := cmd.Flags().GetString("metal")
	item.MetalType = entity.MetalType(metal)

	inputs := []struct {
		flag  string
		field string
		dest  *decimal.Decimal
	}{
		{"weight", "weightGrams", &item.WeightGrams},
		{"rate", "ratePerGram", &item.RatePerGram},
		{"making", "makingChargePercent", &item.MakingChargePercent},
		{"gst", "gstPercent", &item.GSTPercent},
	}
	for _, in := range inputs {
		f, _ := cmd.Flags().GetFloat64(in.flag)
		d, err := billing.DecimalFromFloat(in.field, 0, f)
		if err != nil {
			return err
		}
		*in.dest = d
	}

	rawDiscount, _ := cmd.Flags().GetString("discount")
	discount, err := money.ParseMoney(rawDiscount)
	if err != nil {
		return entity.NewValidationError("discount", "must be a number")
	}

	totals, err := billing.ComputeInvoiceTotals([]entity.LineItem{item}, discount)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(totals)
	}
	return printTotals(out, totals)
}

func printTotals(out io.Writer, totals billing.InvoiceTotals) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	line := totals.Lines[0]
	rows := []struct {
		label string
		value money.Money
	}{
		{"Base", line.Base},
		{"Making charge", line.Making},
		{"Taxable", line.Taxable},
		{"GST", line.GST},
		{"Discount", totals.Discount},
		{"Net payable", totals.Net},
	}
	fmt.Fprintf(w, "Weight\t%s\t\n", line.Weight)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t\n", r.label, r.value)
	}
	return w.Flush()
}
