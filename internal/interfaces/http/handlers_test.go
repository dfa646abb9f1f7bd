package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/application/service"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testServer struct {
	server   *Server
	invoices *memory.InvoiceSource
}

func newTestServer(t *testing.T, health HealthCheck) *testServer {
	t.Helper()

	invoices := memory.NewInvoiceSource(entity.Invoice{
		InvoiceID:    "INV-1001",
		CustomerName: "Ravi Shah",
		MobileNumber: "9876543210",
		Status:       entity.InvoiceStatusPending,
		Items: []entity.LineItem{{
			Description:         "Bangle",
			MetalType:           entity.MetalGold22K,
			WeightGrams:         decimal.NewFromInt(10),
			RatePerGram:         decimal.NewFromInt(6000),
			MakingChargePercent: decimal.NewFromInt(10),
			GSTPercent:          decimal.NewFromInt(3),
		}},
		GrossAmount: money.FromMajor(66000),
		NetAmount:   money.FromMajor(67980),
		CreatedAt:   time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	})

	store := service.NewManualStore(memory.NewCustomerStore(), zap.NewNop())
	require.NoError(t, store.Load(context.Background()))

	customers := service.NewCustomerService(store, invoices, reconcile.DefaultOptions(), nil, zap.NewNop())
	billing := service.NewBillingService(invoices, zap.NewNop())
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ledger_customer_profiles 1\n"))
	})

	return &testServer{
		server:   NewServer(DefaultServerConfig(), customers, billing, metrics, health, nopLogger{}),
		invoices: invoices,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHandlers_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		ts := newTestServer(t, func(context.Context) error { return nil })
		rec, resp := ts.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, resp["success"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		ts := newTestServer(t, func(context.Context) error { return errors.New("database is locked") })
		rec, resp := ts.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "database is locked", resp["error"])
	})
}

func TestHandlers_Metrics(t *testing.T) {
	ts := newTestServer(t, nil)
	rec, _ := ts.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_customer_profiles")
}

func TestHandlers_CustomerLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, resp := ts.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), page["total"])

	rec, resp = ts.do(t, http.MethodPost, "/api/customers", map[string]interface{}{
		"full_name":     "Asha Rao",
		"mobile_number": "9123456780",
		"credit_limit":  "50000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp["data"].(map[string]interface{})
	id := created["id"].(string)
	assert.Equal(t, "Asha Rao", created["full_name"])
	assert.Equal(t, true, created["is_manual"])

	rec, _ = ts.do(t, http.MethodPost, "/api/customers", map[string]interface{}{
		"full_name":     " asha rao ",
		"mobile_number": "9000000000",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = ts.do(t, http.MethodPut, "/api/customers/"+id, map[string]interface{}{
		"full_name":     "Asha Rao",
		"mobile_number": "9123456780",
		"city":          "Pune",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := resp["data"].(map[string]interface{})
	assert.Equal(t, "updated", result["outcome"])

	rec, resp = ts.do(t, http.MethodGet, "/api/customers/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pune", resp["data"].(map[string]interface{})["city"])

	rec, _ = ts.do(t, http.MethodDelete, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_InvoiceOnlyCustomer(t *testing.T) {
	ts := newTestServer(t, nil)
	path := "/api/customers/" + url.PathEscape(entity.InvoiceOnlyIDPrefix+"ravi shah")

	rec, resp := ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := resp["data"].(map[string]interface{})
	assert.Equal(t, "Ravi Shah", profile["full_name"])
	assert.Equal(t, 67980.0, profile["outstanding_balance"])

	rec, _ = ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = ts.do(t, http.MethodPut, path, map[string]interface{}{
		"full_name":     "Ravi Shah",
		"mobile_number": "9876543210",
		"city":          "Surat",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "promoted", resp["data"].(map[string]interface{})["outcome"])
}

func TestHandlers_InvoiceOnlyCustomerWithSlashInName(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, ts.invoices.Upsert(context.Background(), []entity.Invoice{{
		InvoiceID:    "INV-1002",
		CustomerName: "A/B Traders",
		Status:       entity.InvoiceStatusPaid,
		GrossAmount:  money.FromMajor(500),
		NetAmount:    money.FromMajor(500),
		CreatedAt:    time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}}))
	path := "/api/customers/" + url.PathEscape(entity.InvoiceOnlyIDPrefix+"a/b traders")

	rec, resp := ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A/B Traders", resp["data"].(map[string]interface{})["full_name"])

	rec, _ = ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = ts.do(t, http.MethodPut, path, map[string]interface{}{
		"full_name":     "A/B Traders",
		"mobile_number": "9811122233",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "promoted", resp["data"].(map[string]interface{})["outcome"])
}

func TestHandlers_ListCustomersValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, resp := ts.do(t, http.MethodGet, "/api/customers?filter=vip", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "filter", resp["field"])

	rec, _ = ts.do(t, http.MethodGet, "/api/customers?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_AddCustomerValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, resp := ts.do(t, http.MethodPost, "/api/customers", map[string]interface{}{"full_name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "fullName", resp["field"])

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestHandlers_QuoteInvoice(t *testing.T) {
	ts := newTestServer(t, nil)

	body := []byte(`{
		"items": [{"description": "Bangle", "metal_type": "GOLD_22K", "weight_grams": 10,
			"rate_per_gram": "6000", "making_charge_percent": 10, "gst_percent": 3}],
		"discount": "100"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/quote", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Gross float64 `json:"gross_amount"`
			GST   float64 `json:"total_gst"`
			Net   float64 `json:"net_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 66000.0, resp.Data.Gross)
	assert.Equal(t, 1980.0, resp.Data.GST)
	assert.Equal(t, 67880.0, resp.Data.Net)

	rec2, resp2 := ts.do(t, http.MethodPost, "/api/invoices/quote", map[string]interface{}{
		"items": []map[string]interface{}{{"weight_grams": -1, "rate_per_gram": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
	assert.Equal(t, "weightGrams", resp2["field"])
}

func TestHandlers_BillingStats(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, resp := ts.do(t, http.MethodGet, "/api/billing/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total_invoices"])
	assert.Equal(t, 67980.0, stats["pending_amount"])

	ts.invoices.Err = errors.New("invoicing service down")
	rec, _ = ts.do(t, http.MethodGet, "/api/billing/stats", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
