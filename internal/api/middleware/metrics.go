package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/stridelab/stridelab/internal/api/middleware"

// Metrics holds the OpenTelemetry metrics instruments.
type Metrics struct {
	requestDuration  metric.Float64Histogram
	requestTotal     metric.Int64Counter
	requestsInFlight metric.Int64UpDownCounter
	responseSize     metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestsInFlight, err := meter.Int64UpDownCounter(
		"http.server.requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently being processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	responseSize, err := meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("Size of HTTP server responses in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		requestsInFlight: requestsInFlight,
		responseSize:     responseSize,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Track request in flight
			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
			}
			m.requestsInFlight.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			defer m.requestsInFlight.Add(r.Context(), -1, metric.WithAttributes(attrs...))

			// Wrap response writer
			wrapped := newMetricsResponseWriter(w)

			// Process request
			next.ServeHTTP(wrapped, r)

			// Calculate duration
			duration := time.Since(start).Seconds()

			// Build attributes with status code
			attrs = append(attrs, attribute.String("http.status_code", strconv.Itoa(wrapped.statusCode)))

			// Add error attribute for 4xx/5xx responses
			if wrapped.statusCode >= 400 {
				attrs = append(attrs, attribute.Bool("error", true))
			}

			// Record metrics
			m.requestDuration.Record(r.Context(), duration, metric.WithAttributes(attrs...))
			m.requestTotal.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			m.responseSize.Record(r.Context(), wrapped.written, metric.WithAttributes(attrs...))
		})
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture response metadata.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// SyncMetrics holds metrics for batch activity processing.
type SyncMetrics struct {
	batchDuration   metric.Float64Histogram
	activitiesTotal metric.Int64Counter
	recognizedTotal metric.Int64Counter
	analysesTotal   metric.Int64Counter
}

// NewSyncMetrics creates metrics for monitoring batch processing runs.
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(meterName)

	batchDuration, err := meter.Float64Histogram(
		"sync.batch.duration",
		metric.WithDescription("Duration of batch processing runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activitiesTotal, err := meter.Int64Counter(
		"sync.activities.total",
		metric.WithDescription("Total number of activities submitted for processing"),
		metric.WithUnit("{activity}"),
	)
	if err != nil {
		return nil, err
	}

	recognizedTotal, err := meter.Int64Counter(
		"sync.efforts.recognized.total",
		metric.WithDescription("Total number of efforts matched into route bundles"),
		metric.WithUnit("{effort}"),
	)
	if err != nil {
		return nil, err
	}

	analysesTotal, err := meter.Int64Counter(
		"sync.splits.analyzed.total",
		metric.WithDescription("Total number of split analyses produced"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		batchDuration:   batchDuration,
		activitiesTotal: activitiesTotal,
		recognizedTotal: recognizedTotal,
		analysesTotal:   analysesTotal,
	}, nil
}

// RecordBatch records the outcome of one batch processing run.
func (m *SyncMetrics) RecordBatch(duration time.Duration, activities, recognized, analyses int) {
	// Background context for metrics so batch cancellation does not drop
	// the final recording.
	ctx := context.TODO()
	m.batchDuration.Record(ctx, duration.Seconds())
	m.activitiesTotal.Add(ctx, int64(activities))
	m.recognizedTotal.Add(ctx, int64(recognized))
	m.analysesTotal.Add(ctx, int64(analyses))
}
