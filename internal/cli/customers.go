package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/luxegem-ledger/internal/application/service"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
)

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List and edit customer profiles",
	}
	cmd.AddCommand(
		newCustomersListCmd(),
		newCustomersAddCmd(),
		newCustomersDeleteCmd(),
		newCustomersImportCmd(),
	)
	return cmd
}

func newCustomersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reconciled customer profiles",
		Example: `  ledgerctl customers list
  ledgerctl customers list --filter outstanding
  ledgerctl customers list -q ravi --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("query")
			rawFilter, _ := cmd.Flags().GetString("filter")
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			filter, err := reconcile.ParseFilter(rawFilter)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.c.Services().Customer.ListCustomers(ctx, reconcile.Query{
				Search:   search,
				Filter:   filter,
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}
			return printCustomers(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringP("query", "q", "", "Search by name, mobile number or GST number")
	cmd.Flags().String("filter", "all", "all, outstanding or top")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", reconcile.DefaultPageSize, "Customers per page")
	return cmd
}

func printCustomers(out io.Writer, page *reconcile.Page) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMOBILE\tINVOICES\tPURCHASES\tOUTSTANDING\tMANUAL")
	for _, p := range page.Customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%t\n",
			p.ID, p.FullName, p.MobileNumber, p.InvoiceCount(),
			p.TotalPurchases, p.OutstandingBalance, p.IsManual)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "page %d of %d, %d customers\n", page.Page, page.TotalPages, page.Total)
	return err
}

func newCustomersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a manual customer record",
		Example: `  ledgerctl customers add --name "Asha Rao" --mobile 9876543210 --city Pune --credit-limit 50000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := fieldsFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			profile, err := a.c.Services().Customer.AddCustomer(ctx, fields)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", profile.FullName, profile.ID)
			return err
		},
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("mobile", "", "Mobile number")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("address", "", "Street address")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("state", "", "State")
	cmd.Flags().String("pincode", "", "Six digit PIN code")
	cmd.Flags().String("gst", "", "GSTIN")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().String("credit-limit", "0", "Credit limit in rupees")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func fieldsFromFlags(cmd *cobra.Command) (entity.CustomerFields, error) {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	limit, err := money.ParseMoney(get("credit-limit"))
	if err != nil {
		return entity.CustomerFields{}, entity.NewValidationError("creditLimit", "must be a number")
	}

	return entity.CustomerFields{
		FullName:     get("name"),
		MobileNumber: get("mobile"),
		Email:        get("email"),
		Address:      get("address"),
		City:         get("city"),
		State:        get("state"),
		Pincode:      get("pincode"),
		GSTNumber:    get("gst"),
		Notes:        get("notes"),
		CreditLimit:  limit,
	}, nil
}

func newCustomersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a manual customer without invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.c.Services().Customer.DeleteCustomer(ctx, args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}

func newCustomersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import manual customers from a spreadsheet",
		Long: `Import manual customers from the first sheet of an .xlsx workbook.

The first row must hold column headers; Full Name is required and Mobile,
Email, Address, City, State, Pincode, GST, Notes and Credit Limit are
optional. Rows that fail validation or duplicate an existing customer are
reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			services := a.c.Services()
			rows, err := services.Sheets.ReadCustomers(ctx, args[0])
			if err != nil {
				return err
			}

			report, err := services.Customer.ImportCustomers(ctx, rows)
			if report != nil {
				printImportReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				a.logger.Error("Import stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func printImportReport(out io.Writer, report *service.ImportReport) {
	fmt.Fprintf(out, "imported %d, skipped %d\n", report.Imported, len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "  row %d %q: %s\n", s.Row, s.Name, s.Reason)
	}
}
