package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerStore_SaveFailureKeepsContents(t *testing.T) {
	ctx := context.Background()
	store := NewCustomerStore(entity.ManualCustomerRecord{ID: "cust_1"})

	store.SaveErr = errors.New("disk full")
	err := store.SaveAll(ctx, nil)
	assert.EqualError(t, err, "disk full")
	assert.Len(t, store.Records(), 1)
	assert.Equal(t, 1, store.SaveCalls())

	store.SaveErr = nil
	require.NoError(t, store.SaveAll(ctx, []entity.ManualCustomerRecord{{ID: "cust_2"}, {ID: "cust_3"}}))
	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	store.LoadErr = errors.New("unreadable")
	_, err = store.LoadAll(ctx)
	assert.Error(t, err)
}

func TestInvoiceSource_Upsert(t *testing.T) {
	ctx := context.Background()
	src := NewInvoiceSource(entity.Invoice{InvoiceID: "INV-1", CustomerName: "Old"})

	require.NoError(t, src.Upsert(ctx, []entity.Invoice{
		{InvoiceID: "INV-1", CustomerName: "New"},
		{InvoiceID: "INV-2", CustomerName: "Other"},
	}))

	invoices, err := src.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "New", invoices[0].CustomerName)

	n, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	src.Err = errors.New("service unavailable")
	_, err = src.ListInvoices(ctx)
	assert.Error(t, err)
}
