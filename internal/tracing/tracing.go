// Package tracing configures OpenTelemetry tracing for the HTTP server.
// Spans are exported over OTLP/HTTP when an endpoint is configured;
// otherwise the global no-op provider stays in place and spans cost nothing.
package tracing

import (
    "context"
    "net/http"
    "net/url"
    "strings"

    "github.com/labstack/echo/v4"
    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/attribute"
    "go.opentelemetry.io/otel/codes"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
    "go.opentelemetry.io/otel/propagation"
    "go.opentelemetry.io/otel/sdk/resource"
    sdktrace "go.opentelemetry.io/otel/sdk/trace"
    "go.opentelemetry.io/otel/trace"
)

const tracerName = "hotel-booking/http"

var propagator = propagation.NewCompositeTextMapPropagator(
    propagation.TraceContext{},
    propagation.Baggage{},
)

// Init installs the global tracer provider and returns its shutdown
// function.  An empty endpoint disables export and returns a no-op
// shutdown.
func Init(ctx context.Context, endpoint, serviceName string) (func(context.Context) error, error) {
    otel.SetTextMapPropagator(propagator)
    if strings.TrimSpace(endpoint) == "" {
        return func(context.Context) error { return nil }, nil
    }
    exporter, err := otlptracehttp.New(ctx,
        otlptracehttp.WithEndpoint(hostPort(endpoint)),
        otlptracehttp.WithInsecure(),
    )
    if err != nil {
        return nil, err
    }
    res, err := resource.Merge(
        resource.Default(),
        resource.NewSchemaless(attribute.String("service.name", serviceName)),
    )
    if err != nil {
        return nil, err
    }
    tp := sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exporter),
        sdktrace.WithResource(res),
    )
    otel.SetTracerProvider(tp)
    return tp.Shutdown, nil
}

// Middleware starts a server span per request, continuing any trace
// propagated in the request headers.  The span is named after the matched
// route so ids do not explode span cardinality.
func Middleware() echo.MiddlewareFunc {
    tracer := otel.Tracer(tracerName)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            ctx := propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))
            route := c.Path()
            if route == "" {
                route = req.URL.Path
            }
            ctx, span := tracer.Start(ctx, req.Method+" "+route, trace.WithSpanKind(trace.SpanKindServer))
            defer span.End()
            c.SetRequest(req.WithContext(ctx))

            err := next(c)
            if err != nil {
                c.Error(err)
            }
            status := c.Response().Status
            span.SetAttributes(
                attribute.String("http.method", req.Method),
                attribute.String("http.route", route),
                attribute.Int("http.status_code", status),
            )
            if sid, ok := c.Get("session_id").(string); ok && sid != "" {
                span.SetAttributes(attribute.String("shopper.session_id", sid))
            }
            if status >= http.StatusInternalServerError {
                span.SetStatus(codes.Error, http.StatusText(status))
            }
            return nil
        }
    }
}

// hostPort strips a URL scheme: "http://tempo:4318" becomes "tempo:4318".
func hostPort(raw string) string {
    raw = strings.TrimSpace(raw)
    if !strings.Contains(raw, "://") {
        return raw
    }
    u, err := url.Parse(raw)
    if err != nil {
        return raw
    }
    port := u.Port()
    if port == "" {
        port = "4318"
    }
    return u.Hostname() + ":" + port
}
