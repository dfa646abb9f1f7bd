package memory

import (
	"context"
	"sync"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

// InvoiceSource serves a fixed invoice collection. Setting Err makes
// ListInvoices fail.
type InvoiceSource struct {
	mu       sync.Mutex
	invoices []entity.Invoice

	Err error
}

// NewInvoiceSource creates a source holding a copy of invoices.
func NewInvoiceSource(invoices ...entity.Invoice) *InvoiceSource {
	return &InvoiceSource{invoices: append([]entity.Invoice{}, invoices...)}
}

// ListInvoices implements port.InvoiceSource
func (s *InvoiceSource) ListInvoices(ctx context.Context) ([]entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	return append([]entity.Invoice{}, s.invoices...), nil
}

// Upsert adds invoices, replacing any with the same id.
func (s *InvoiceSource) Upsert(ctx context.Context, invoices []entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range invoices {
		replaced := false
		for i := range s.invoices {
			if s.invoices[i].InvoiceID == inv.InvoiceID {
				s.invoices[i] = inv
				replaced = true
				break
			}
		}
		if !replaced {
			s.invoices = append(s.invoices, inv)
		}
	}
	return nil
}

// Count returns the number of invoices held.
func (s *InvoiceSource) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices), nil
}

var _ port.InvoiceRepository = (*InvoiceSource)(nil)
