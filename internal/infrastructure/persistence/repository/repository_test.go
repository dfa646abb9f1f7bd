package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/luxegem-ledger/migrations"
	"github.com/garyjia/luxegem-ledger/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations(migrations.FS))
	return sqlite.NewDB(db.DB, logger)
}

var created = time.Date(2025, 2, 14, 11, 0, 0, 0, time.UTC)

func record(id, name string) entity.ManualCustomerRecord {
	return entity.ManualCustomerRecord{
		ID: id,
		CustomerFields: entity.CustomerFields{
			FullName:     name,
			MobileNumber: "9876543210",
			Email:        "a@example.com",
			City:         "Jaipur",
			State:        "Rajasthan",
			Pincode:      "302001",
			GSTNumber:    "08ABCDE1234F1Z5",
			Notes:        "prefers 22K",
			CreditLimit:  money.MustParse("150000.50"),
		},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

func TestCustomerRepository_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zap.NewNop())
	ctx := context.Background()

	empty, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	second := record("cust_b", "Dev Patel")
	second.CreatedAt = created.Add(time.Minute)
	require.NoError(t, repo.SaveAll(ctx, []entity.ManualCustomerRecord{second, record("cust_a", "Asha Rao")}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, record("cust_a", "Asha Rao"), loaded[0])
	assert.Equal(t, "cust_b", loaded[1].ID)

	require.NoError(t, repo.SaveAll(ctx, []entity.ManualCustomerRecord{second}))
	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "cust_b", loaded[0].ID)
}

func TestCustomerRepository_SaveAllIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []entity.ManualCustomerRecord{record("cust_a", "Asha Rao")}))

	// duplicate primary key fails half way through
	err := repo.SaveAll(ctx, []entity.ManualCustomerRecord{
		record("cust_x", "Xavier"),
		record("cust_x", "Xavier Again"),
	})
	require.Error(t, err)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "cust_a", loaded[0].ID)
}

func TestCustomerRepository_RejectsNegativeCreditLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zap.NewNop())

	rec := record("cust_a", "Asha Rao")
	rec.CreditLimit = money.FromMajor(-1)
	assert.Error(t, repo.SaveAll(context.Background(), []entity.ManualCustomerRecord{rec}))
}

func goldInvoice(id, name string, status entity.InvoiceStatus, at time.Time) entity.Invoice {
	return entity.Invoice{
		InvoiceID:     id,
		CustomerName:  name,
		MobileNumber:  "9876543210",
		Address:       "12 MG Road",
		MetalType:     entity.MetalGold22K,
		Status:        status,
		PaymentMethod: "UPI",
		GrossAmount:   money.FromMajor(66000),
		NetAmount:     money.FromMajor(67980),
		CreatedAt:     at,
		Items: []entity.LineItem{
			{
				Description:         "Bangle",
				MetalType:           entity.MetalGold22K,
				WeightGrams:         decimal.RequireFromString("10.125"),
				RatePerGram:         decimal.RequireFromString("6000"),
				MakingChargePercent: decimal.RequireFromString("10"),
				GSTPercent:          decimal.RequireFromString("3"),
			},
			{
				Description:         "Chain",
				MetalType:           entity.MetalSilver,
				WeightGrams:         decimal.RequireFromString("0.333"),
				RatePerGram:         decimal.RequireFromString("92.5"),
				MakingChargePercent: decimal.RequireFromString("12.5"),
				GSTPercent:          decimal.RequireFromString("3"),
			},
		},
	}
}

func TestInvoiceRepository_UpsertAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	ctx := context.Background()

	later := goldInvoice("INV-2", "Asha Rao", entity.InvoiceStatusPending, created.Add(24*time.Hour))
	earlier := goldInvoice("INV-1", "Ravi Shah", entity.InvoiceStatusPaid, created)
	require.NoError(t, repo.Upsert(ctx, []entity.Invoice{later, earlier}))

	invoices, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-1", invoices[0].InvoiceID)
	assert.Equal(t, entity.InvoiceStatusPaid, invoices[0].Status)
	assert.Equal(t, money.FromMajor(67980), invoices[0].NetAmount)
	assert.True(t, created.Equal(invoices[0].CreatedAt))

	require.Len(t, invoices[0].Items, 2)
	assert.Equal(t, "Bangle", invoices[0].Items[0].Description)
	assert.True(t, invoices[0].Items[0].WeightGrams.Equal(decimal.RequireFromString("10.125")))
	assert.Equal(t, entity.MetalSilver, invoices[0].Items[1].MetalType)
	assert.True(t, invoices[0].Items[1].RatePerGram.Equal(decimal.RequireFromString("92.5")))
}

func TestInvoiceRepository_UpsertReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	ctx := context.Background()

	inv := goldInvoice("INV-1", "Ravi Shah", entity.InvoiceStatusPending, created)
	require.NoError(t, repo.Upsert(ctx, []entity.Invoice{inv}))

	inv.Status = entity.InvoiceStatusPaid
	inv.Items = inv.Items[:1]
	require.NoError(t, repo.Upsert(ctx, []entity.Invoice{inv}))

	invoices, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, entity.InvoiceStatusPaid, invoices[0].Status)
	assert.Len(t, invoices[0].Items, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInvoiceRepository_UpsertRejectsMissingID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	ctx := context.Background()

	err := repo.Upsert(ctx, []entity.Invoice{
		goldInvoice("INV-1", "Ravi Shah", entity.InvoiceStatusPaid, created),
		goldInvoice("", "Nobody", entity.InvoiceStatusPaid, created),
	})
	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "whole batch is rolled back")
}

func TestInvoiceRepository_UpsertRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	ctx := context.Background()

	for _, status := range []entity.InvoiceStatus{"paid", "", "Refunded"} {
		lower := goldInvoice("INV-2", "Ravi Shah", status, created)
		err := repo.Upsert(ctx, []entity.Invoice{
			goldInvoice("INV-1", "Ravi Shah", entity.InvoiceStatusPaid, created),
			lower,
		})

		var vErr *entity.ValidationError
		require.True(t, errors.As(err, &vErr), "status %q", status)
		assert.Equal(t, "status", vErr.Field)
		assert.Contains(t, err.Error(), "INV-2")
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "whole batch is rolled back")
}

func TestDB_WithTransactionNests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customers := NewCustomerRepository(db, zap.NewNop())
	invoices := NewInvoiceRepository(db, zap.NewNop())

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := customers.SaveAll(ctx, []entity.ManualCustomerRecord{record("cust_a", "Asha Rao")}); err != nil {
			return err
		}
		if err := invoices.Upsert(ctx, []entity.Invoice{goldInvoice("INV-1", "Asha Rao", entity.InvoiceStatusPaid, created)}); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	loaded, err := customers.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	n, err := invoices.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
