package port

import (
	"context"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

// InvoiceSource returns every invoice visible to the caller, in no
// particular order. The collection is owned by the invoicing service and is
// read-only here.
type InvoiceSource interface {
	ListInvoices(ctx context.Context) ([]entity.Invoice, error)
}

// CustomerSheetReader reads customer rows from an uploaded spreadsheet.
type CustomerSheetReader interface {
	ReadCustomers(ctx context.Context, path string) ([]entity.CustomerFields, error)
}
