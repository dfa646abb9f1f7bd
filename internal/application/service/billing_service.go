package service

import (
	"context"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/billing"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"go.uber.org/zap"
)

// BillingService prices line items and summarises issued invoices.
type BillingService interface {
	Quote(items []entity.LineItem, discount money.Money) (*billing.InvoiceTotals, error)
	Stats(ctx context.Context) (*billing.BillingStats, error)
}

type billingServiceImpl struct {
	invoices port.InvoiceSource
	logger   *zap.Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(invoices port.InvoiceSource, logger *zap.Logger) BillingService {
	return &billingServiceImpl{invoices: invoices, logger: logger}
}

// Quote computes the breakdown of a prospective invoice.
func (s *billingServiceImpl) Quote(items []entity.LineItem, discount money.Money) (*billing.InvoiceTotals, error) {
	totals, err := billing.ComputeInvoiceTotals(items, discount)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// Stats computes dashboard KPIs over every visible invoice.
func (s *billingServiceImpl) Stats(ctx context.Context) (*billing.BillingStats, error) {
	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		s.logger.Error("Failed to list invoices for stats", zap.Error(err))
		return nil, &SourceError{Err: err}
	}
	stats := billing.ComputeStats(invoices)
	return &stats, nil
}
