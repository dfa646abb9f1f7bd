package service

import "time"

// Metrics receives reconciliation and mutation measurements.
type Metrics interface {
	ObserveReconcile(duration time.Duration, profiles int)
	ObserveMutation(operation string, err error)
	IncAmountMismatch()
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) ObserveReconcile(time.Duration, int) {}
func (NopMetrics) ObserveMutation(string, error)       {}
func (NopMetrics) IncAmountMismatch()                  {}
