package entity

// MetalType classifies the article on an invoice line.
type MetalType string

const (
	MetalGold18K  MetalType = "GOLD_18K"
	MetalGold22K  MetalType = "GOLD_22K"
	MetalGold24K  MetalType = "GOLD_24K"
	MetalSilver   MetalType = "SILVER"
	MetalPlatinum MetalType = "PLATINUM"
	MetalDiamond  MetalType = "DIAMOND"
	MetalOther    MetalType = "OTHER"
)

var validMetalTypes = map[MetalType]bool{
	MetalGold18K:  true,
	MetalGold22K:  true,
	MetalGold24K:  true,
	MetalSilver:   true,
	MetalPlatinum: true,
	MetalDiamond:  true,
	MetalOther:    true,
}

// IsValid returns true if the metal type is one of the known values.
func (m MetalType) IsValid() bool {
	return validMetalTypes[m]
}

// InvoiceStatus is the payment status of an issued invoice.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusDraft   InvoiceStatus = "Draft"
)

// IsValid returns true if the status is Paid, Pending or Draft.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusDraft:
		return true
	}
	return false
}

// InvoiceOnlyIDPrefix prefixes the synthetic id of a profile that exists
// only because of invoices.
const InvoiceOnlyIDPrefix = "inv-cust-"

// UnknownCustomerName is used for invoices issued without a customer name.
const UnknownCustomerName = "Unknown Customer"
