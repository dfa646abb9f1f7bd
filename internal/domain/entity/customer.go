package entity

import (
	"strings"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/domain/money"
)

// CustomerFields are the operator-editable attributes of a customer.
type CustomerFields struct {
	FullName     string      `json:"full_name"`
	MobileNumber string      `json:"mobile_number"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	Pincode      string      `json:"pincode"`
	GSTNumber    string      `json:"gst_number"`
	Notes        string      `json:"notes"`
	CreditLimit  money.Money `json:"credit_limit"`
}

// Normalize trims surrounding whitespace from every text field.
func (f CustomerFields) Normalize() CustomerFields {
	f.FullName = strings.TrimSpace(f.FullName)
	f.MobileNumber = strings.TrimSpace(f.MobileNumber)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Pincode = strings.TrimSpace(f.Pincode)
	f.GSTNumber = strings.ToUpper(strings.TrimSpace(f.GSTNumber))
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

// ManualCustomerRecord is a customer profile authored by an operator.
// It is the only customer data this module persists.
type ManualCustomerRecord struct {
	ID string `json:"id"`
	CustomerFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerProfile is the reconciled view of one customer identity. It is
// recomputed on every read and never stored.
type CustomerProfile struct {
	ID string `json:"id"`
	CustomerFields
	IsManual           bool        `json:"is_manual"`
	CreatedAt          time.Time   `json:"created_at"`
	TotalPurchases     money.Money `json:"total_purchases"`
	TotalPaid          money.Money `json:"total_paid"`
	OutstandingBalance money.Money `json:"outstanding_balance"`
	LastPurchaseDate   *time.Time  `json:"last_purchase_date"`
	Invoices           []Invoice   `json:"invoices"`
}

// InvoiceCount returns the number of invoices attributed to the profile.
func (p *CustomerProfile) InvoiceCount() int { return len(p.Invoices) }

// HasInvoices reports whether any invoice is attributed to the profile.
func (p *CustomerProfile) HasInvoices() bool { return len(p.Invoices) > 0 }
