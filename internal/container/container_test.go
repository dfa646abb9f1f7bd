package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "ledger.db")
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Ledger.Identity = "email"
	_, err = NewContainer(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "ledger.identity")
}

func TestContainer_StartAndClose(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.Ready())
	assert.False(t, c.Health(context.Background()).Overall)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start is rejected")

	health := c.Health(ctx)
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.NoError(t, c.HealthCheck(ctx))

	svc := c.Services().Customer
	profile, err := svc.AddCustomer(ctx, entity.CustomerFields{FullName: "Asha Rao", MobileNumber: "9876543210"})
	require.NoError(t, err)
	assert.True(t, profile.IsManual)

	page, err := svc.ListCustomers(ctx, reconcile.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `ledger_customer_mutations_total`)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(ctx))
}

func TestContainer_PersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))
	_, err = first.Services().Customer.AddCustomer(ctx, entity.CustomerFields{FullName: "Dev Patel", MobileNumber: "9123456780"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.Start(ctx))
	defer second.Close()

	customers, err := second.Services().Customer.GetCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Dev Patel", customers[0].FullName)
}

func TestContainer_WarnsOnIdentityCollisions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.Identity = "name_mobile"
	ctx := context.Background()

	first, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))
	svc := first.Services().Customer
	_, err = svc.AddCustomer(ctx, entity.CustomerFields{FullName: "Asha Rao", MobileNumber: "9876543210"})
	require.NoError(t, err)
	_, err = svc.AddCustomer(ctx, entity.CustomerFields{FullName: "asha rao", MobileNumber: "9123456780"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	cfg.Ledger.Identity = "name"
	core, logs := observer.New(zapcore.WarnLevel)
	second, err := NewContainer(cfg, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, second.Start(ctx))
	defer second.Close()

	warnings := logs.FilterField(zap.String("key", "asha rao")).All()
	require.Len(t, warnings, 1)
	ids, ok := warnings[0].ContextMap()["ids"].([]interface{})
	require.True(t, ok)
	assert.Len(t, ids, 2)
}

func TestContainer_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = false

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Nil(t, c.MetricsHandler())
}

func TestConfig_ReconcileOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ledger.Identity = "name_mobile"
	cfg.Ledger.Locale = "hi-IN"

	opts, err := cfg.ReconcileOptions()
	require.NoError(t, err)
	assert.Equal(t, "hi-IN", opts.Locale.String())
	assert.IsType(t, reconcile.NameMobileIdentity{}, opts.Identity)

	cfg.Ledger.Locale = "??"
	_, err = cfg.ReconcileOptions()
	assert.Error(t, err)
}
