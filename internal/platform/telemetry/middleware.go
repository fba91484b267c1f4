package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/bytestream/account-service/telemetry"

	// TraceIDHeader carries the trace ID of the request back to the caller.
	TraceIDHeader = "X-Trace-ID"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics on the given meter provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option overrides the global OpenTelemetry providers.
type Option func(*options)

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider uses mp instead of the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Middleware returns the tracing handler followed by the metrics handler.
// Both fall back to the global providers, which are no-ops until New
// installs real ones.
func Middleware(serviceName string, opts ...Option) []gin.HandlerFunc {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithTracerProvider(o.tracerProvider)),
		MetricsMiddleware(o.meterProvider),
	}
}

// MetricsMiddleware records request metrics and echoes the active trace ID
// in the X-Trace-ID header. It must run after the tracing handler.
func MetricsMiddleware(provider metric.MeterProvider) gin.HandlerFunc {
	metrics, err := NewMetrics(provider)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			c.Header(TraceIDHeader, span.SpanContext().TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		metrics.activeRequests.Add(ctx, 1, metric.WithAttributes(method, route))
		defer metrics.activeRequests.Add(ctx, -1, metric.WithAttributes(method, route))

		c.Next()

		attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		metrics.requestTotal.Add(ctx, 1, attrs)
	}
}
