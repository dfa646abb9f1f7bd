package lifecycle

import "github.com/garyjia/luxegem-ledger/internal/domain/entity"

// State is the lifecycle state of one logical customer identity.
type State string

const (
	StateInvoiceOnly         State = "INVOICE_ONLY"
	StateManual              State = "MANUAL"
	StateManualInvoiceBacked State = "MANUAL_INVOICE_BACKED"
	StateDeleted             State = "DELETED"
)

var validStates = map[State]bool{
	StateInvoiceOnly:         true,
	StateManual:              true,
	StateManualInvoiceBacked: true,
	StateDeleted:             true,
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// StateOf derives the lifecycle state of a reconciled profile.
func StateOf(p *entity.CustomerProfile) State {
	switch {
	case p.IsManual && p.HasInvoices():
		return StateManualInvoiceBacked
	case p.IsManual:
		return StateManual
	default:
		return StateInvoiceOnly
	}
}

// Trigger is an event that can move an identity between states
type Trigger string

const (
	TriggerEdit             Trigger = "EDIT"
	TriggerAttributeInvoice Trigger = "ATTRIBUTE_INVOICE"
	TriggerDelete           Trigger = "DELETE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
