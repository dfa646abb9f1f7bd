package entity

import (
	"time"

	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// LineItem is one priced article on an invoice. Values are the raw inputs
// as entered at billing time; derived amounts come from the billing package.
type LineItem struct {
	Description         string          `json:"description"`
	MetalType           MetalType       `json:"metal_type"`
	WeightGrams         decimal.Decimal `json:"weight_grams"`
	RatePerGram         decimal.Decimal `json:"rate_per_gram"`
	MakingChargePercent decimal.Decimal `json:"making_charge_percent"`
	GSTPercent          decimal.Decimal `json:"gst_percent"`
}

// Invoice is a billing transaction owned by the invoicing service.
// It is read-only for this module.
type Invoice struct {
	InvoiceID     string        `json:"invoice_id"`
	CustomerName  string        `json:"customer_name"`
	MobileNumber  string        `json:"mobile_number,omitempty"`
	Address       string        `json:"address,omitempty"`
	MetalType     MetalType     `json:"metal_type,omitempty"`
	Items         []LineItem    `json:"items"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	GrossAmount   money.Money   `json:"gross_amount"`
	NetAmount     money.Money   `json:"net_amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

// IsPaid reports whether the invoice has been settled.
func (i *Invoice) IsPaid() bool { return i.Status == InvoiceStatusPaid }

// IsPending reports whether the invoice is awaiting payment.
func (i *Invoice) IsPending() bool { return i.Status == InvoiceStatusPending }
