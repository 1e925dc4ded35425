package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"ytstats/internal/config"
)

func testOTelConfig(tracing bool) *OTelConfig {
	cfg := NewOTelConfig(config.Default().Telemetry)
	cfg.EnableTracing = tracing
	cfg.TraceWriter = io.Discard
	return cfg
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{
		EnableTracing: true,
		EnableMetrics: false,
		TraceExporter: "stdout",
		SampleRatio:   0.25,
		Environment:   "staging",
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.NotEmpty(t, cfg.ServiceVersion)
	assert.Equal(t, "staging", cfg.Environment)
	assert.True(t, cfg.EnableTracing)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	providers, err := InitializeOTel(testOTelConfig(true), logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_Disabled(t *testing.T) {
	cfg := testOTelConfig(false)
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer, "no-op tracer")
	assert.NotNil(t, providers.Meter, "no-op meter")
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	cfg := testOTelConfig(true)
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "unsupported trace exporter")
}

func TestTraceCorrelation(t *testing.T) {
	var spans bytes.Buffer
	cfg := testOTelConfig(true)
	cfg.TraceWriter = &spans

	providers, err := InitializeOTel(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), "test-operation")
	assert.Contains(t, spans.String(), "boom")

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestQueryMetrics_RecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateQueryMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQuery(ctx, "top_n", 10*time.Millisecond, 5, nil)
	metrics.RecordQuery(ctx, "top_n", 5*time.Millisecond, 0, errors.New("bad field"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), sums["query_executions_total"])
	assert.Equal(t, int64(1), sums["query_errors_total"])

	var nilMetrics *QueryMetrics
	assert.NotPanics(t, func() { nilMetrics.RecordQuery(ctx, "x", time.Second, 1, nil) })
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(false), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateQueryMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordQuery(context.Background(), "filter", time.Millisecond, 3, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "query_executions")
	assert.Contains(t, body, "go_goroutines")
}
