package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/inkleaf/internal/database"
)

// BusinessMetrics records the outcome of note, vault and search use case calls.
//
// domain is "vault", "notes" or "search". operation is the use case method in
// snake case prefixed by its entity ("vault_note_create", "note_list",
// "semantic_search"). status is "success" or "error".
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

func operationAttrs(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewBusinessMetrics registers <namespace>_operations_total and
// <namespace>_operation_duration_seconds on meterProvider.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Total number of note, vault and search operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Duration of note, vault and search operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttrs(domain, operation, status))
}

// NoOpBusinessMetrics discards everything. The container hands it out when
// metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

// connectionStates are reported by the state gauge, one series per state.
var connectionStates = []database.State{database.Disconnected, database.Connecting, database.Connected}

// ConnectionMetrics tracks the database managers. The vault manager connects
// on demand, so its attempts and current state are the signal that the
// encrypting connection is healthy.
//
// It records:
//   - <namespace>_database_connect_attempts_total{manager,status}
//   - <namespace>_database_connect_duration_seconds{manager,status}
//   - <namespace>_database_connection_state{manager,state}, 1 for the current state
type ConnectionMetrics struct {
	attempts  metric.Int64Counter
	durations metric.Float64Histogram

	mu       sync.RWMutex
	managers []*database.Manager
}

// NewConnectionMetrics registers the connection instruments on meterProvider.
func NewConnectionMetrics(meterProvider metric.MeterProvider, namespace string) (*ConnectionMetrics, error) {
	meter := meterProvider.Meter(namespace)
	c := &ConnectionMetrics{}

	var err error
	c.attempts, err = meter.Int64Counter(
		namespace+"_database_connect_attempts_total",
		metric.WithDescription("Database connection attempts by manager and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connect attempt counter: %w", err)
	}

	c.durations, err = meter.Float64Histogram(
		namespace+"_database_connect_duration_seconds",
		metric.WithDescription("Time spent establishing database connections in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connect duration histogram: %w", err)
	}

	_, err = meter.Int64ObservableGauge(
		namespace+"_database_connection_state",
		metric.WithDescription("Current database connection state, 1 for the active state"),
		metric.WithInt64Callback(c.observeStates),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection state gauge: %w", err)
	}

	return c, nil
}

// Track adds m to the state gauge.
func (c *ConnectionMetrics) Track(m *database.Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.managers = append(c.managers, m)
}

// ObserveConnect implements database.ConnectObserver.
func (c *ConnectionMetrics) ObserveConnect(ctx context.Context, manager string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("manager", manager),
		attribute.String("status", status),
	)
	c.attempts.Add(ctx, 1, attrs)
	c.durations.Record(ctx, duration.Seconds(), attrs)
}

func (c *ConnectionMetrics) observeStates(_ context.Context, o metric.Int64Observer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.managers {
		current := m.State()
		for _, state := range connectionStates {
			var value int64
			if state == current {
				value = 1
			}
			o.Observe(value, metric.WithAttributes(
				attribute.String("manager", m.Name()),
				attribute.String("state", state.String()),
			))
		}
	}
	return nil
}
