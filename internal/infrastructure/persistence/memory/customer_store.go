// Package memory provides in-process implementations of the persistence
// ports, used by tests and by the server when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

// CustomerStore keeps manual customer records in memory. Setting LoadErr or
// SaveErr makes the corresponding call fail without touching the contents.
type CustomerStore struct {
	mu        sync.Mutex
	records   []entity.ManualCustomerRecord
	saveCalls int

	LoadErr error
	SaveErr error
}

// NewCustomerStore creates a store holding a copy of records.
func NewCustomerStore(records ...entity.ManualCustomerRecord) *CustomerStore {
	return &CustomerStore{records: append([]entity.ManualCustomerRecord{}, records...)}
}

// LoadAll implements port.CustomerStore
func (s *CustomerStore) LoadAll(ctx context.Context) ([]entity.ManualCustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return append([]entity.ManualCustomerRecord{}, s.records...), nil
}

// SaveAll implements port.CustomerStore
func (s *CustomerStore) SaveAll(ctx context.Context, records []entity.ManualCustomerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.records = append([]entity.ManualCustomerRecord{}, records...)
	return nil
}

// Records returns a copy of the stored records.
func (s *CustomerStore) Records() []entity.ManualCustomerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ManualCustomerRecord{}, s.records...)
}

// SaveCalls returns how many times SaveAll was called.
func (s *CustomerStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

var _ port.CustomerStore = (*CustomerStore)(nil)
