package repository

import (
	"context"
	"fmt"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// InvoiceRepository implements port.InvoiceRepository on the local invoice
// mirror tables
type InvoiceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice mirror repository
func NewInvoiceRepository(db *sqlite.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// ListInvoices returns every mirrored invoice with its line items in
// position order
func (r *InvoiceRepository) ListInvoices(ctx context.Context) ([]entity.Invoice, error) {
	query := `
		SELECT invoice_id, customer_name, mobile_number, address, metal_type,
			status, payment_method, gross_amount, net_amount, created_at
		FROM invoices
		ORDER BY created_at, invoice_id
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []entity.Invoice{}
	index := make(map[string]int)
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.InvoiceID,
			&inv.CustomerName,
			&inv.MobileNumber,
			&inv.Address,
			&inv.MetalType,
			&inv.Status,
			&inv.PaymentMethod,
			&inv.GrossAmount,
			&inv.NetAmount,
			&inv.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan invoice", zap.Error(err))
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.CreatedAt = inv.CreatedAt.UTC()
		inv.Items = []entity.LineItem{}
		index[inv.InvoiceID] = len(invoices)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, invoices, index); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) attachItems(ctx context.Context, invoices []entity.Invoice, index map[string]int) error {
	query := `
		SELECT invoice_id, description, metal_type, weight_grams, rate_per_gram,
			making_charge_percent, gst_percent
		FROM invoice_items
		ORDER BY invoice_id, position
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoice items", zap.Error(err))
		return fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID string
		var item entity.LineItem
		if err := rows.Scan(
			&invoiceID,
			&item.Description,
			&item.MetalType,
			&item.WeightGrams,
			&item.RatePerGram,
			&item.MakingChargePercent,
			&item.GSTPercent,
		); err != nil {
			r.logger.Error("Failed to scan invoice item", zap.Error(err))
			return fmt.Errorf("failed to scan invoice item: %w", err)
		}
		if i, ok := index[invoiceID]; ok {
			invoices[i].Items = append(invoices[i].Items, item)
		}
	}
	return rows.Err()
}

// Upsert inserts or replaces invoices and their line items in one
// transaction
func (r *InvoiceRepository) Upsert(ctx context.Context, invoices []entity.Invoice) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		exec := r.db.Executor(ctx)

		invoiceQuery := `
			INSERT INTO invoices (
				invoice_id, customer_name, mobile_number, address, metal_type,
				status, payment_method, gross_amount, net_amount, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (invoice_id) DO UPDATE SET
				customer_name = excluded.customer_name,
				mobile_number = excluded.mobile_number,
				address = excluded.address,
				metal_type = excluded.metal_type,
				status = excluded.status,
				payment_method = excluded.payment_method,
				gross_amount = excluded.gross_amount,
				net_amount = excluded.net_amount,
				created_at = excluded.created_at
		`
		itemQuery := `
			INSERT INTO invoice_items (
				invoice_id, position, description, metal_type, weight_grams,
				rate_per_gram, making_charge_percent, gst_percent
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

		for _, inv := range invoices {
			if inv.InvoiceID == "" {
				return fmt.Errorf("failed to upsert invoice: %w", entity.NewValidationError("invoiceId", "is required"))
			}
			if !inv.Status.IsValid() {
				r.logger.Warn("Rejected invoice with unknown status",
					zap.String("invoice_id", inv.InvoiceID),
					zap.String("status", string(inv.Status)))
				return fmt.Errorf("failed to upsert invoice %s: %w", inv.InvoiceID,
					entity.NewValidationError("status", fmt.Sprintf("unknown status %q, want Paid, Pending or Draft", inv.Status)))
			}

			if _, err := exec.ExecContext(ctx, invoiceQuery,
				inv.InvoiceID,
				inv.CustomerName,
				inv.MobileNumber,
				inv.Address,
				inv.MetalType,
				inv.Status,
				inv.PaymentMethod,
				inv.GrossAmount,
				inv.NetAmount,
				inv.CreatedAt.UTC(),
			); err != nil {
				r.logger.Error("Failed to upsert invoice",
					zap.String("invoice_id", inv.InvoiceID),
					zap.Error(err))
				return fmt.Errorf("failed to upsert invoice %s: %w", inv.InvoiceID, err)
			}

			if _, err := exec.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, inv.InvoiceID); err != nil {
				return fmt.Errorf("failed to clear items of invoice %s: %w", inv.InvoiceID, err)
			}

			for pos, item := range inv.Items {
				if _, err := exec.ExecContext(ctx, itemQuery,
					inv.InvoiceID,
					pos,
					item.Description,
					item.MetalType,
					item.WeightGrams,
					item.RatePerGram,
					item.MakingChargePercent,
					item.GSTPercent,
				); err != nil {
					r.logger.Error("Failed to insert invoice item",
						zap.String("invoice_id", inv.InvoiceID),
						zap.Int("position", pos),
						zap.Error(err))
					return fmt.Errorf("failed to insert item %d of invoice %s: %w", pos, inv.InvoiceID, err)
				}
			}
		}

		r.logger.Info("Invoices mirrored", zap.Int("count", len(invoices)))
		return nil
	})
}

// Count returns the number of mirrored invoices
func (r *InvoiceRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Executor(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		r.logger.Error("Failed to count invoices", zap.Error(err))
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
