package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrTerminal  = "terminal"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics value is a safe no-op recorder.
type Metrics struct {
	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Backend API metrics
	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram

	// Search pagination metrics
	searchPagesTotal metric.Int64Counter
	pendingSearches  metric.Int64UpDownCounter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.apiOperationsTotal, err = meter.Int64Counter(
		"patentsafe_api_operations_total",
		metric.WithDescription("Total number of PatentSafe API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create patentsafe_api_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"patentsafe_api_operation_duration_seconds",
		metric.WithDescription("PatentSafe API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create patentsafe_api_operation_duration_seconds histogram: %w", err)
	}

	m.searchPagesTotal, err = meter.Int64Counter(
		"search_pages_total",
		metric.WithDescription("Total number of search result pages delivered"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search_pages_total counter: %w", err)
	}

	m.pendingSearches, err = meter.Int64UpDownCounter(
		"search_pending_tokens",
		metric.WithDescription("Number of unredeemed search continuation tokens"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search_pending_tokens gauge: %w", err)
	}

	return m, nil
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIOperation records a PatentSafe API operation with operation type,
// status, and duration.
//
// Parameters:
//   - operation: Operation type (connect, get, list, search, resume)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.apiOperationsTotal == nil || m.apiOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.apiOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSearchPage records one delivered search result page. Terminal pages
// carry no continuation token.
func (m *Metrics) RecordSearchPage(ctx context.Context, terminal bool) {
	if m.searchPagesTotal == nil {
		return // Instrumentation not initialized
	}

	m.searchPagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool(attrTerminal, terminal),
	))
}

// AddPendingSearches adjusts the unredeemed continuation-token gauge.
// Pass a positive delta when a token is issued and a negative one when a
// token is redeemed.
func (m *Metrics) AddPendingSearches(ctx context.Context, delta int64) {
	if m.pendingSearches == nil {
		return // Instrumentation not initialized
	}

	m.pendingSearches.Add(ctx, delta)
}
