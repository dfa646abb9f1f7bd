// Package lifecycle models the lifecycle of a customer identity:
//
//	INVOICE_ONLY --EDIT--> MANUAL_INVOICE_BACKED
//	MANUAL --ATTRIBUTE_INVOICE--> MANUAL_INVOICE_BACKED
//	MANUAL --DELETE--> DELETED
//
// MANUAL_INVOICE_BACKED has no DELETE transition: a customer with invoices
// can never be removed.
package lifecycle

import "fmt"

// StateMachine tracks the current state of one identity and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the target state if permitted
	Fire(trigger Trigger) error
}

// Builder collects the transition table and builds machines from it
type Builder struct {
	transitions map[State]map[Trigger]State
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger]State)}
}

// Permit allows trigger to move from one state to another
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	if b.transitions[from] == nil {
		b.transitions[from] = make(map[Trigger]State)
	}
	b.transitions[from][trigger] = to
	return b
}

// Build creates a machine in the given initial state. The machine gets its
// own copy of the transition table.
func (b *Builder) Build(initial State) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}

	table := make(map[State]map[Trigger]State, len(b.transitions))
	for from, byTrigger := range b.transitions {
		copied := make(map[Trigger]State, len(byTrigger))
		for trigger, to := range byTrigger {
			copied[trigger] = to
		}
		table[from] = copied
	}
	return &stateMachine{current: initial, transitions: table}
}

var customerLifecycle = NewBuilder().
	Permit(StateInvoiceOnly, TriggerEdit, StateManualInvoiceBacked).
	Permit(StateInvoiceOnly, TriggerAttributeInvoice, StateInvoiceOnly).
	Permit(StateManual, TriggerEdit, StateManual).
	Permit(StateManual, TriggerAttributeInvoice, StateManualInvoiceBacked).
	Permit(StateManual, TriggerDelete, StateDeleted).
	Permit(StateManualInvoiceBacked, TriggerEdit, StateManualInvoiceBacked).
	Permit(StateManualInvoiceBacked, TriggerAttributeInvoice, StateManualInvoiceBacked)

// New returns a customer lifecycle machine positioned at initial.
func New(initial State) StateMachine {
	return customerLifecycle.Build(initial)
}

type stateMachine struct {
	current     State
	transitions map[State]map[Trigger]State
}

func (m *stateMachine) State() State {
	return m.current
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.current][trigger]
	return ok
}

func (m *stateMachine) Fire(trigger Trigger) error {
	to, ok := m.transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = to
	return nil
}
