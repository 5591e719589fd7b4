// Package metrics provides Prometheus metrics for the artifact collector.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "artifact_collector"

var (
	// MuseumRequestsTotal tracks outbound page requests to the collection API
	MuseumRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "museum",
			Name:      "requests_total",
			Help:      "Total number of page requests sent to the collection API",
		},
		[]string{"status_code"},
	)

	// MuseumRequestDuration tracks page request duration
	MuseumRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "museum",
			Name:      "request_duration_seconds",
			Help:      "Duration of collection API page requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// CollectionsTotal tracks fetch runs by outcome
	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "collections_total",
			Help:      "Total number of classification fetches by status",
		},
		[]string{"status"},
	)

	// RecordsCollected tracks normalized artifacts produced by fetches
	RecordsCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "records_total",
			Help:      "Total number of artifact records collected",
		},
	)

	// RowsWritten tracks rows upserted per table
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "rows_written_total",
			Help:      "Total number of rows upserted per table",
		},
		[]string{"table"},
	)

	// StoreErrors tracks failed table writes
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "write_errors_total",
			Help:      "Total number of failed table writes",
		},
		[]string{"table"},
	)

	// QueryExecutionsTotal tracks canned query runs by outcome
	QueryExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "executions_total",
			Help:      "Total number of canned query executions by status",
		},
		[]string{"query", "status"},
	)

	// QueryDuration tracks canned query duration
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Duration of canned query executions in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"query"},
	)

	// HTTPRequestsTotal tracks requests served by the HTTP API
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request duration per route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// MCPToolCallsTotal tracks MCP tool invocations by outcome
	MCPToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool calls by tool and status",
		},
		[]string{"tool", "status"},
	)
)

// RecordMuseumRequest records one page request. statusCode 0 means no
// response was received.
func RecordMuseumRequest(statusCode int, durationSeconds float64) {
	label := "error"
	if statusCode != 0 {
		label = strconv.Itoa(statusCode)
	}
	MuseumRequestsTotal.WithLabelValues(label).Inc()
	MuseumRequestDuration.Observe(durationSeconds)
}

// RecordCollection records a finished fetch.
func RecordCollection(status string, records int) {
	CollectionsTotal.WithLabelValues(status).Inc()
	if records > 0 {
		RecordsCollected.Add(float64(records))
	}
}

// RecordTableWrite records the outcome of writing one table.
func RecordTableWrite(table string, rows int, err error) {
	if err != nil {
		StoreErrors.WithLabelValues(table).Inc()
		return
	}
	RowsWritten.WithLabelValues(table).Add(float64(rows))
}

// RecordQuery records a canned query execution.
func RecordQuery(number int, status string, durationSeconds float64) {
	q := strconv.Itoa(number)
	QueryExecutionsTotal.WithLabelValues(q, status).Inc()
	QueryDuration.WithLabelValues(q).Observe(durationSeconds)
}

// RecordHTTPRequest records one served request. route is the matched mux
// pattern, or "unmatched".
func RecordHTTPRequest(method, route string, statusCode int, durationSeconds float64) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordToolCall records one MCP tools/call.
func RecordToolCall(tool, status string) {
	MCPToolCallsTotal.WithLabelValues(tool, status).Inc()
}
