package repository

import (
	"context"
	"fmt"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// CustomerRepository implements port.CustomerStore on SQLite
type CustomerRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new manual customer repository
func NewCustomerRepository(db *sqlite.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// LoadAll returns every manual customer record, oldest first
func (r *CustomerRepository) LoadAll(ctx context.Context) ([]entity.ManualCustomerRecord, error) {
	query := `
		SELECT id, full_name, mobile_number, email, address, city, state,
			pincode, gst_number, notes, credit_limit, created_at, updated_at
		FROM manual_customers
		ORDER BY created_at, id
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to load manual customers", zap.Error(err))
		return nil, fmt.Errorf("failed to load manual customers: %w", err)
	}
	defer rows.Close()

	records := []entity.ManualCustomerRecord{}
	for rows.Next() {
		var rec entity.ManualCustomerRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.FullName,
			&rec.MobileNumber,
			&rec.Email,
			&rec.Address,
			&rec.City,
			&rec.State,
			&rec.Pincode,
			&rec.GSTNumber,
			&rec.Notes,
			&rec.CreditLimit,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan manual customer", zap.Error(err))
			return nil, fmt.Errorf("failed to scan manual customer: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.UpdatedAt = rec.UpdatedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manual customers: %w", err)
	}

	return records, nil
}

// SaveAll replaces the stored collection inside a single transaction, so
// either every record is written or the previous contents remain.
func (r *CustomerRepository) SaveAll(ctx context.Context, records []entity.ManualCustomerRecord) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		exec := r.db.Executor(ctx)

		if _, err := exec.ExecContext(ctx, `DELETE FROM manual_customers`); err != nil {
			r.logger.Error("Failed to clear manual customers", zap.Error(err))
			return fmt.Errorf("failed to clear manual customers: %w", err)
		}

		query := `
			INSERT INTO manual_customers (
				id, full_name, mobile_number, email, address, city, state,
				pincode, gst_number, notes, credit_limit, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, rec := range records {
			_, err := exec.ExecContext(ctx, query,
				rec.ID,
				rec.FullName,
				rec.MobileNumber,
				rec.Email,
				rec.Address,
				rec.City,
				rec.State,
				rec.Pincode,
				rec.GSTNumber,
				rec.Notes,
				rec.CreditLimit,
				rec.CreatedAt.UTC(),
				rec.UpdatedAt.UTC(),
			)
			if err != nil {
				r.logger.Error("Failed to insert manual customer",
					zap.String("id", rec.ID),
					zap.Error(err))
				return fmt.Errorf("failed to insert manual customer %s: %w", rec.ID, err)
			}
		}

		r.logger.Debug("Manual customers saved", zap.Int("count", len(records)))
		return nil
	})
}

// Verify interface compliance
var _ port.CustomerStore = (*CustomerRepository)(nil)
