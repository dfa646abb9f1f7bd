package port

import (
	"context"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

// CustomerStore persists the manual customer records as one collection.
// SaveAll must be atomic: either every record is stored or none is.
type CustomerStore interface {
	LoadAll(ctx context.Context) ([]entity.ManualCustomerRecord, error)
	SaveAll(ctx context.Context, records []entity.ManualCustomerRecord) error
}

// InvoiceRepository is the local mirror of invoices issued by the invoicing
// service.
type InvoiceRepository interface {
	InvoiceSource
	Upsert(ctx context.Context, invoices []entity.Invoice) error
	Count(ctx context.Context) (int, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
