package service

import (
	"errors"
	"fmt"
)

// ErrCustomerNotFound is returned when an id matches no customer profile.
var ErrCustomerNotFound = errors.New("customer not found")

// DuplicateNameError is returned when a manual record with the same identity
// already exists.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a customer named %q already exists", e.Name)
}

// HasDependentInvoicesError is returned when deleting a customer that still
// has invoices attributed to it.
type HasDependentInvoicesError struct {
	Name  string
	Count int
}

func (e *HasDependentInvoicesError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d invoices attached", e.Name, e.Count)
}

// PersistenceError wraps a failure of the manual customer store backend.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("customer store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SourceError wraps a failure of the invoice source. The merge is aborted
// and the original error stays reachable through errors.Is and errors.As.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to list invoices: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
