package billing

import (
	"errors"
	"fmt"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
)

// ErrAmountMismatch is returned when an issued invoice's stored amounts do
// not match the amounts recomputed from its line items.
var ErrAmountMismatch = errors.New("invoice amounts do not match line items")

// CheckInvoice recomputes the gross and net amounts of an issued invoice
// and compares them with the stored values. Invoices without line items are
// not checked.
func CheckInvoice(inv entity.Invoice) error {
	if len(inv.Items) == 0 {
		return nil
	}

	totals, err := ComputeInvoiceTotals(inv.Items, money.Zero)
	if err != nil {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceID, err)
	}

	if totals.Gross != inv.GrossAmount {
		return fmt.Errorf("%w: invoice %s gross %s, computed %s",
			ErrAmountMismatch, inv.InvoiceID, inv.GrossAmount.FormatMajor(), totals.Gross.FormatMajor())
	}
	// A stored net below gross plus GST is an applied discount.
	if inv.NetAmount.IsNegative() || inv.NetAmount > totals.Net {
		return fmt.Errorf("%w: invoice %s net %s, computed at most %s",
			ErrAmountMismatch, inv.InvoiceID, inv.NetAmount.FormatMajor(), totals.Net.FormatMajor())
	}
	return nil
}
