package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/billing"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/lifecycle"
	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
	"go.jetify.com/typeid/v2"
	"go.uber.org/zap"
)

// CustomerIDPrefix is the TypeID prefix of manual customer ids.
const CustomerIDPrefix = "cust"

// UpdateOutcome tells whether an update edited an existing manual record or
// promoted an invoice-only customer.
type UpdateOutcome string

const (
	OutcomeUpdated  UpdateOutcome = "updated"
	OutcomePromoted UpdateOutcome = "promoted"
)

// UpdateResult is returned by UpdateCustomer.
type UpdateResult struct {
	Outcome  UpdateOutcome           `json:"outcome"`
	Customer *entity.CustomerProfile `json:"customer"`
}

// CustomerService exposes the reconciled customer view and the mutations of
// the manual customer store.
type CustomerService interface {
	GetCustomers(ctx context.Context) ([]entity.CustomerProfile, error)
	ListCustomers(ctx context.Context, q reconcile.Query) (*reconcile.Page, error)
	GetCustomer(ctx context.Context, id string) (*entity.CustomerProfile, error)
	AddCustomer(ctx context.Context, fields entity.CustomerFields) (*entity.CustomerProfile, error)
	UpdateCustomer(ctx context.Context, id string, fields entity.CustomerFields) (*UpdateResult, error)
	DeleteCustomer(ctx context.Context, id string) error
	ImportCustomers(ctx context.Context, rows []entity.CustomerFields) (*ImportReport, error)
}

type customerServiceImpl struct {
	store    *ManualStore
	invoices port.InvoiceSource
	opts     reconcile.Options
	metrics  Metrics
	logger   *zap.Logger

	now   func() time.Time
	newID func() (string, error)
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	store *ManualStore,
	invoices port.InvoiceSource,
	opts reconcile.Options,
	metrics Metrics,
	logger *zap.Logger,
) CustomerService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &customerServiceImpl{
		store:    store,
		invoices: invoices,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newCustomerID,
	}
}

func newCustomerID() (string, error) {
	tid, err := typeid.Generate(CustomerIDPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to generate customer id: %w", err)
	}
	return tid.String(), nil
}

// GetCustomers returns every customer profile sorted by name.
func (s *customerServiceImpl) GetCustomers(ctx context.Context) ([]entity.CustomerProfile, error) {
	invoices, err := s.listInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return s.merge(invoices, s.store.Snapshot()), nil
}

// ListCustomers returns one page of searched and filtered profiles.
func (s *customerServiceImpl) ListCustomers(ctx context.Context, q reconcile.Query) (*reconcile.Page, error) {
	profiles, err := s.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	page := reconcile.Apply(profiles, q)
	return &page, nil
}

// GetCustomer returns the profile with the given id.
func (s *customerServiceImpl) GetCustomer(ctx context.Context, id string) (*entity.CustomerProfile, error) {
	profiles, err := s.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := reconcile.Find(profiles, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	return p, nil
}

// AddCustomer creates a manual record. It fails with DuplicateNameError when
// a manual record with the same identity exists.
func (s *customerServiceImpl) AddCustomer(ctx context.Context, fields entity.CustomerFields) (*entity.CustomerProfile, error) {
	fields = fields.Normalize()
	if err := validateFields(fields); err != nil {
		s.metrics.ObserveMutation("add", err)
		return nil, err
	}

	invoices, err := s.listInvoices(ctx)
	if err != nil {
		s.metrics.ObserveMutation("add", err)
		return nil, err
	}

	var created *entity.CustomerProfile
	err = s.store.Mutate(ctx, func(records []entity.ManualCustomerRecord) ([]entity.ManualCustomerRecord, error) {
		if dup := s.findByKey(records, s.key(fields), ""); dup != nil {
			return nil, &DuplicateNameError{Name: fields.FullName}
		}

		rec, err := s.newRecord(fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		created, err = s.profileOf(invoices, records, rec.ID)
		return records, err
	})
	s.metrics.ObserveMutation("add", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer added", zap.String("id", created.ID), zap.String("name", created.FullName))
	return created, nil
}

// UpdateCustomer edits a manual record in place, or promotes an invoice-only
// customer to a manual record. Promotion keeps the customer's identity: the
// submitted name (and mobile, when it is part of the key) must resolve to
// the same identity as the invoices.
func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, id string, fields entity.CustomerFields) (*UpdateResult, error) {
	fields = fields.Normalize()
	if err := validateFields(fields); err != nil {
		s.metrics.ObserveMutation("update", err)
		return nil, err
	}

	invoices, err := s.listInvoices(ctx)
	if err != nil {
		s.metrics.ObserveMutation("update", err)
		return nil, err
	}

	var result *UpdateResult
	err = s.store.Mutate(ctx, func(records []entity.ManualCustomerRecord) ([]entity.ManualCustomerRecord, error) {
		current, ok := reconcile.Find(s.merge(invoices, records), id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}

		machine := lifecycle.New(lifecycle.StateOf(current))
		if err := machine.Fire(lifecycle.TriggerEdit); err != nil {
			return nil, err
		}

		outcome := OutcomeUpdated
		targetID := id
		if idx := indexOf(records, id); idx >= 0 {
			key := s.key(fields)
			if dup := s.findByKey(records, key, id); dup != nil {
				return nil, &DuplicateNameError{Name: fields.FullName}
			}
			records[idx].CustomerFields = fields
			records[idx].UpdatedAt = s.now()
		} else {
			if err := s.checkIdentityKept(current, fields); err != nil {
				return nil, err
			}
			rec, err := s.newRecord(fields)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			outcome = OutcomePromoted
			targetID = rec.ID
		}

		updated, err := s.profileOf(invoices, records, targetID)
		if err != nil {
			return nil, err
		}
		result = &UpdateResult{Outcome: outcome, Customer: updated}
		return records, nil
	})
	s.metrics.ObserveMutation("update", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer updated",
		zap.String("id", result.Customer.ID),
		zap.String("outcome", string(result.Outcome)))
	return result, nil
}

// DeleteCustomer removes a manual record. Customers with invoices cannot be
// deleted.
func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, id string) error {
	invoices, err := s.listInvoices(ctx)
	if err != nil {
		s.metrics.ObserveMutation("delete", err)
		return err
	}

	err = s.store.Mutate(ctx, func(records []entity.ManualCustomerRecord) ([]entity.ManualCustomerRecord, error) {
		current, ok := reconcile.Find(s.merge(invoices, records), id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}

		machine := lifecycle.New(lifecycle.StateOf(current))
		if !machine.CanFire(lifecycle.TriggerDelete) && current.HasInvoices() {
			return nil, &HasDependentInvoicesError{Name: current.FullName, Count: current.InvoiceCount()}
		}
		if err := machine.Fire(lifecycle.TriggerDelete); err != nil {
			return nil, err
		}

		kept := records[:0]
		for _, rec := range records {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	s.metrics.ObserveMutation("delete", err)
	if err != nil {
		return err
	}

	s.logger.Info("Customer deleted", zap.String("id", id))
	return nil
}

func (s *customerServiceImpl) listInvoices(ctx context.Context) ([]entity.Invoice, error) {
	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, &SourceError{Err: err}
	}

	for _, inv := range invoices {
		if err := billing.CheckInvoice(inv); err != nil {
			s.metrics.IncAmountMismatch()
			s.logger.Warn("Invoice amounts disagree with line items",
				zap.String("invoice_id", inv.InvoiceID),
				zap.Error(err))
		}
	}
	return invoices, nil
}

func (s *customerServiceImpl) merge(invoices []entity.Invoice, records []entity.ManualCustomerRecord) []entity.CustomerProfile {
	start := time.Now()
	profiles := reconcile.Merge(invoices, records, s.opts)
	s.metrics.ObserveReconcile(time.Since(start), len(profiles))
	return profiles
}

func (s *customerServiceImpl) profileOf(invoices []entity.Invoice, records []entity.ManualCustomerRecord, id string) (*entity.CustomerProfile, error) {
	p, ok := reconcile.Find(s.merge(invoices, records), id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	return p, nil
}

func (s *customerServiceImpl) newRecord(fields entity.CustomerFields) (entity.ManualCustomerRecord, error) {
	id, err := s.newID()
	if err != nil {
		return entity.ManualCustomerRecord{}, err
	}
	now := s.now()
	return entity.ManualCustomerRecord{
		ID:             id,
		CustomerFields: fields,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *customerServiceImpl) key(fields entity.CustomerFields) string {
	return s.identity().Key(fields.FullName, fields.MobileNumber)
}

func (s *customerServiceImpl) identity() reconcile.IdentityResolver {
	if s.opts.Identity == nil {
		return reconcile.NameIdentity{}
	}
	return s.opts.Identity
}

// findByKey returns the first record with the given identity key, skipping
// the record with id skipID.
func (s *customerServiceImpl) findByKey(records []entity.ManualCustomerRecord, key, skipID string) *entity.ManualCustomerRecord {
	for i := range records {
		if records[i].ID == skipID {
			continue
		}
		if s.identity().Key(records[i].FullName, records[i].MobileNumber) == key {
			return &records[i]
		}
	}
	return nil
}

// checkIdentityKept rejects a promotion that would detach the new manual
// record from the invoices it is meant to describe.
func (s *customerServiceImpl) checkIdentityKept(current *entity.CustomerProfile, fields entity.CustomerFields) error {
	want := strings.TrimPrefix(current.ID, entity.InvoiceOnlyIDPrefix)
	if s.key(fields) == want {
		return nil
	}
	byName := reconcile.NameIdentity{}
	if byName.Key(fields.FullName, "") != byName.Key(current.FullName, "") {
		return entity.NewValidationError("fullName", "cannot be changed for a customer created from invoices")
	}
	return entity.NewValidationError("mobileNumber", "cannot be changed for a customer identified by mobile number")
}

func indexOf(records []entity.ManualCustomerRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// IsNotFound reports whether err means the customer does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}
