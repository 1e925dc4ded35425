package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ytstats/internal/infrastructure"
	"ytstats/internal/shared/testutil"
)

func TestOTelMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := infrastructure.CreateQueryMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	m := NewOTelMiddleware(&infrastructure.OTelProviders{Tracer: tp.Tracer("test"), Logger: logger}, metrics)

	r := chi.NewRouter()
	r.Use(RequestID, m.Handler)
	r.Get("/api/dataset/top", okHandler)
	r.Get("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	traceIDs := make([]string, 0, 2)
	for _, path := range []string{"/api/dataset/top?field=Subscribers", "/api/broken"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		traceIDs = append(traceIDs, rec.Header().Get(TraceIDHeader))
	}

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), traceIDs[0])
	assert.Equal(t, spans[1].SpanContext().TraceID().String(), traceIDs[1])
	assert.Equal(t, "GET /api/dataset/top", spans[0].Name())
	assert.Equal(t, "Unset", spans[0].Status().Code.String())
	assert.Equal(t, "Error", spans[1].Status().Code.String())

	var requestID string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == attribute.Key("http.request_id") {
			requestID = kv.Value.AsString()
		}
	}
	assert.Len(t, requestID, 36)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	routes := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name != "http_requests_total" {
				continue
			}
			for _, dp := range metric.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
				if route, ok := dp.Attributes.Value("route"); ok {
					routes[route.AsString()] = true
				}
			}
		}
	}
	assert.Equal(t, int64(2), total)
	assert.True(t, routes["/api/dataset/top"])
	assert.True(t, routes["/api/broken"])
}

func TestOTelMiddleware_WithoutMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	m := NewOTelMiddleware(&infrastructure.OTelProviders{Tracer: tp.Tracer("test")}, nil)
	rec := httptest.NewRecorder()
	m.Handler(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "GET /plain", recorder.Ended()[0].Name())
}
