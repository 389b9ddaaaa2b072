package tracing

import (
	"context"

	"inkwell/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "inkwell"

// Config controls the tracer provider installed by Init.
type Config struct {
	ServiceName string
	SampleRatio float64
}

// ConfigFromEnv reads OTEL_SERVICE_NAME and OTEL_TRACES_SAMPLE_RATIO.
func ConfigFromEnv() Config {
	return Config{
		ServiceName: config.GetEnvString("OTEL_SERVICE_NAME", "inkwell-api"),
		SampleRatio: config.GetEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
	}
}

// Init installs a global tracer provider and the W3C trace-context propagator.
// The returned function flushes and shuts the provider down.
func Init(cfg Config, opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	ratio := cfg.SampleRatio
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}, opts...)

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

// Tracer returns the application tracer from the current global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts an internal span named name.
//
//	ctx, span := tracing.StartSpan(ctx, "search.Search")
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
