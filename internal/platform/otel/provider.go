// Package otel wires OpenTelemetry tracing for zitie processes.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationPrefix names every tracer created through Tracer.
const InstrumentationPrefix = "github.com/louisbranch/zitie"

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when ZITIE_OTEL_ENDPOINT is empty or ZITIE_OTEL_ENABLED
// is "false", Setup returns a no-op shutdown function and no global provider
// is registered. Spans started through Tracer are then non-recording.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv("ZITIE_OTEL_ENABLED"), "false") {
		return noop, nil
	}

	endpoint := strings.TrimSpace(os.Getenv("ZITIE_OTEL_ENDPOINT"))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a tracer from the global provider scoped under InstrumentationPrefix.
func Tracer(component string) trace.Tracer {
	component = strings.Trim(strings.TrimSpace(component), "/")
	if component == "" {
		return otel.Tracer(InstrumentationPrefix)
	}
	return otel.Tracer(InstrumentationPrefix + "/" + component)
}
