package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("LEDGER_DB_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	t.Setenv("LEDGER_CONFIG", "")
}

func TestQuote(t *testing.T) {
	out, err := run(t, "quote", "--weight", "10", "--rate", "6000", "--making", "10", "--gst", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "₹60,000.00")
	assert.Contains(t, out, "₹1,980.00")
	assert.Contains(t, out, "₹67,980.00")
}

func TestQuote_JSON(t *testing.T) {
	out, err := run(t, "quote", "--weight", "2.5", "--rate", "41.3", "--making", "10", "--gst", "3", "--discount", "0.99", "--json")
	require.NoError(t, err)

	var totals struct {
		Gross float64 `json:"gross_amount"`
		Net   float64 `json:"net_amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	assert.Equal(t, 113.58, totals.Gross)
	assert.Equal(t, 116.0, totals.Net)
}

func TestQuote_Validation(t *testing.T) {
	_, err := run(t, "quote", "--weight", "-1", "--rate", "6000")
	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "weightGrams", vErr.Field)

	_, err = run(t, "quote", "--weight", "1", "--rate", "100", "--metal", "BRONZE")
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "metalType", vErr.Field)

	_, err = run(t, "quote", "--rate", "100")
	assert.Error(t, err, "weight is required")
}

func TestCustomers_AddListDelete(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "customers", "add", "--name", "Asha Rao", "--mobile", "9876543210", "--credit-limit", "50000")
	require.NoError(t, err)
	assert.Contains(t, out, "added Asha Rao (cust_")

	_, err = run(t, "customers", "add", "--name", "asha rao")
	assert.Error(t, err)

	out, err = run(t, "customers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "1 customers")

	// pull the id back out of the list
	var id string
	for _, f := range bytes.Fields([]byte(out)) {
		if bytes.HasPrefix(f, []byte("cust_")) {
			id = string(f)
		}
	}
	require.NotEmpty(t, id)

	out, err = run(t, "customers", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+id)

	out, err = run(t, "customers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0 customers")

	_, err = run(t, "customers", "list", "--filter", "vip")
	assert.Error(t, err)
}

const invoicesJSON = `[
  {
    "invoice_id": "INV-1001",
    "customer_name": "Ravi Shah",
    "mobile_number": "9876543210",
    "status": "Paid",
    "items": [{"description": "Bangle", "metal_type": "GOLD_22K", "weight_grams": 10,
      "rate_per_gram": 6000, "making_charge_percent": 10, "gst_percent": 3}],
    "gross_amount": 66000,
    "net_amount": 67980,
    "created_at": "2025-01-10T12:00:00Z"
  },
  {
    "invoice_id": "INV-1002",
    "customer_name": "ravi shah ",
    "status": "Pending",
    "items": [],
    "gross_amount": 1000,
    "net_amount": 1030,
    "created_at": "2025-02-01T12:00:00Z"
  }
]`

func TestInvoices_LoadRejectsUnknownStatus(t *testing.T) {
	useTempDB(t)

	path := filepath.Join(t.TempDir(), "invoices.json")
	lower := strings.Replace(invoicesJSON, `"status": "Paid"`, `"status": "paid"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(lower), 0o644))

	_, err := run(t, "invoices", "load", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "paid"`)

	out, err := run(t, "customers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0 customers")
}

func TestInvoices_LoadAndStats(t *testing.T) {
	useTempDB(t)

	path := filepath.Join(t.TempDir(), "invoices.json")
	require.NoError(t, os.WriteFile(path, []byte(invoicesJSON), 0o644))

	out, err := run(t, "invoices", "load", path)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 2 invoices, 2 in mirror")
	assert.NotContains(t, out, "warning")

	out, err = run(t, "customers", "list", "--filter", "outstanding")
	require.NoError(t, err)
	assert.Contains(t, out, "Ravi Shah")
	assert.Contains(t, out, "₹1,030.00")

	out, err = run(t, "invoices", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "₹67,980.00")
	assert.Contains(t, out, "50.00%")
}

func TestInvoices_LoadStrictMismatch(t *testing.T) {
	useTempDB(t)

	bad := `[{"invoice_id": "INV-9", "customer_name": "X", "status": "Paid",
		"items": [{"weight_grams": 1, "rate_per_gram": 100, "making_charge_percent": 0, "gst_percent": 0}],
		"gross_amount": 99, "net_amount": 99, "created_at": "2025-01-01T00:00:00Z"}]`
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := run(t, "invoices", "load", "--strict", path)
	assert.Error(t, err)

	out, err := run(t, "invoices", "load", path)
	require.NoError(t, err)
	assert.Contains(t, out, "warning")
}

func TestCustomers_Import(t *testing.T) {
	useTempDB(t)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Full Name", "Mobile", "Pincode"},
		{"Meera Iyer", "9123456780", "600001"},
		{"Bad Pin", "9123456781", "12"},
		{"meera iyer", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "customers.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out, err := run(t, "customers", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1, skipped 2")
	assert.Contains(t, out, `row 2 "Bad Pin"`)
	assert.Contains(t, out, `row 3 "meera iyer"`)
}
