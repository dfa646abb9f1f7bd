package container

import (
	"fmt"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/application/service"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/importer"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/repository"
	"github.com/garyjia/luxegem-ledger/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/luxegem-ledger/internal/observability/metrics"
	"github.com/garyjia/luxegem-ledger/migrations"
	"github.com/garyjia/luxegem-ledger/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *database.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase opens the SQLite database, applies the embedded
// migrations and wraps the connection in a transaction manager.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		BusyTimeout:     cfg.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunMigrations(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		SqlDB:          db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories on the transaction manager.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Customers: repository.NewCustomerRepository(db, logger),
		Invoices:  repository.NewInvoiceRepository(db, logger),
	}, nil
}

// ProvideMetrics creates the Prometheus collectors, or nil when disabled.
func ProvideMetrics(cfg *MetricsConfig) *metrics.LedgerMetrics {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return metrics.New(metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Store    *service.ManualStore
	Invoices port.InvoiceSource
	Ledger   *Config
	Metrics  service.Metrics
	Logger   *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Store == nil || deps.Invoices == nil {
		return nil, fmt.Errorf("customer store and invoice source are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	opts, err := deps.Ledger.ReconcileOptions()
	if err != nil {
		return nil, err
	}

	return &ServiceBundle{
		Customer: service.NewCustomerService(deps.Store, deps.Invoices, opts, deps.Metrics, deps.Logger),
		Billing:  service.NewBillingService(deps.Invoices, deps.Logger),
		Sheets:   importer.NewXLSXReader(deps.Logger),
	}, nil
}
