package billing

import (
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// BillingStats summarises a set of invoices for the dashboard KPIs.
type BillingStats struct {
	TotalInvoices     int             `json:"total_invoices"`
	PaidInvoices      int             `json:"paid_invoices"`
	PendingInvoices   int             `json:"pending_invoices"`
	DraftInvoices     int             `json:"draft_invoices"`
	TotalAmount       money.Money     `json:"total_amount"`
	TotalRevenue      money.Money     `json:"total_revenue"`
	PendingAmount     money.Money     `json:"pending_amount"`
	AverageOrderValue money.Money     `json:"average_order_value"`
	ConversionRate    decimal.Decimal `json:"conversion_rate"`
}

// ComputeStats aggregates invoice net amounts by status. Revenue counts only
// paid invoices; the average order value and conversion rate are taken over
// all invoices. Statuses other than Paid and Pending count as drafts.
func ComputeStats(invoices []entity.Invoice) BillingStats {
	stats := BillingStats{ConversionRate: decimal.Zero}
	for _, inv := range invoices {
		stats.TotalInvoices++
		stats.TotalAmount = stats.TotalAmount.Add(inv.NetAmount)
		switch {
		case inv.IsPaid():
			stats.PaidInvoices++
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.NetAmount)
		case inv.IsPending():
			stats.PendingInvoices++
			stats.PendingAmount = stats.PendingAmount.Add(inv.NetAmount)
		default:
			stats.DraftInvoices++
		}
	}

	if stats.TotalInvoices == 0 {
		return stats
	}
	count := decimal.NewFromInt(int64(stats.TotalInvoices))
	stats.AverageOrderValue = money.FromDecimal(stats.TotalAmount.Decimal().Div(count))
	stats.ConversionRate = money.RoundHalfUp(
		decimal.NewFromInt(int64(stats.PaidInvoices)).Shift(2).Div(count), 2)
	return stats
}
