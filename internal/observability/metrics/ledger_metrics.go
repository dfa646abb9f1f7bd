// Package metrics exports ledger measurements to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/application/service"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config labels every exported series.
type Config struct {
	ServiceName string
	Environment string
}

// LedgerMetrics implements service.Metrics.
type LedgerMetrics struct {
	registry         *prometheus.Registry
	reconcileSeconds prometheus.Histogram
	profiles         prometheus.Gauge
	mutations        *prometheus.CounterVec
	amountMismatches prometheus.Counter
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New(cfg Config) *LedgerMetrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "luxegem-ledger"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &LedgerMetrics{
		registry: prometheus.NewRegistry(),
		reconcileSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ledger_reconcile_duration_seconds",
			Help:        "Time taken to merge invoices and manual records into profiles.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			ConstLabels: constLabels,
		}),
		profiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ledger_customer_profiles",
			Help:        "Number of profiles produced by the last reconciliation.",
			ConstLabels: constLabels,
		}),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "ledger_customer_mutations_total",
				Help:        "Manual customer mutations by operation and result.",
				ConstLabels: constLabels,
			},
			[]string{"operation", "result"}, // success | invalid | not_found | conflict | failed
		),
		amountMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ledger_invoice_amount_mismatch_total",
			Help:        "Issued invoices whose stored amounts disagree with their line items.",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reconcileSeconds,
		m.profiles,
		m.mutations,
		m.amountMismatches,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *LedgerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *LedgerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *LedgerMetrics) ObserveReconcile(duration time.Duration, profiles int) {
	if m == nil {
		return
	}
	m.reconcileSeconds.Observe(duration.Seconds())
	m.profiles.Set(float64(profiles))
}

func (m *LedgerMetrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, resultOf(err)).Inc()
}

func (m *LedgerMetrics) IncAmountMismatch() {
	if m == nil {
		return
	}
	m.amountMismatches.Inc()
}

func resultOf(err error) string {
	var vErr *entity.ValidationError
	var dupErr *service.DuplicateNameError
	var depErr *service.HasDependentInvoicesError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &vErr):
		return "invalid"
	case service.IsNotFound(err):
		return "not_found"
	case errors.As(err, &dupErr), errors.As(err, &depErr):
		return "conflict"
	default:
		return "failed"
	}
}

var _ service.Metrics = (*LedgerMetrics)(nil)
