package service

import (
	"context"
	"sync"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

// MutateFunc receives a private copy of the records and returns the new
// collection. Returning an error discards the change.
type MutateFunc func(records []entity.ManualCustomerRecord) ([]entity.ManualCustomerRecord, error)

// ManualStore keeps the manual customer records in memory in front of a
// durable CustomerStore. Writes are serialised and follow write-then-confirm:
// the in-memory state only changes after the backend accepted the new
// collection.
type ManualStore struct {
	mu      sync.RWMutex
	backend port.CustomerStore
	records []entity.ManualCustomerRecord
	logger  *zap.Logger
}

// NewManualStore creates an empty store. Call Load before serving reads.
func NewManualStore(backend port.CustomerStore, logger *zap.Logger) *ManualStore {
	return &ManualStore{
		backend: backend,
		records: []entity.ManualCustomerRecord{},
		logger:  logger,
	}
}

// Load replaces the in-memory records with the backend's contents.
func (s *ManualStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.LoadAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load manual customers", zap.Error(err))
		return &PersistenceError{Op: "load", Err: err}
	}

	s.records = cloneRecords(records)
	s.logger.Info("Manual customers loaded", zap.Int("count", len(s.records)))
	return nil
}

// Snapshot returns a copy of the current records.
func (s *ManualStore) Snapshot() []entity.ManualCustomerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Len returns the number of records.
func (s *ManualStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Mutate applies fn under the single-writer lock and persists the result.
// Errors from fn are returned unchanged; backend failures are returned as
// *PersistenceError. In both cases the store keeps its previous state.
func (s *ManualStore) Mutate(ctx context.Context, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneRecords(s.records))
	if err != nil {
		return err
	}

	if err := s.backend.SaveAll(ctx, next); err != nil {
		s.logger.Error("Failed to save manual customers, keeping previous state",
			zap.Int("count", len(next)),
			zap.Error(err))
		return &PersistenceError{Op: "save", Err: err}
	}

	s.records = cloneRecords(next)
	return nil
}

func cloneRecords(records []entity.ManualCustomerRecord) []entity.ManualCustomerRecord {
	out := make([]entity.ManualCustomerRecord, len(records))
	copy(out, records)
	return out
}
