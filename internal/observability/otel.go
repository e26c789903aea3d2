package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/utils"
)

// Setup configures the global tracer provider. With OTEL_EXPORTER set to
// "otlp" spans go to the collector at OTEL_EXPORTER_OTLP_ENDPOINT; any
// other value writes spans to stdout, which is enough for local work.
// The returned shutdown func flushes pending spans.
func Setup(ctx context.Context, log *logger.Logger) (func(context.Context) error, error) {
	exporterKind := utils.GetEnv("OTEL_EXPORTER", "stdout", log)

	var exporter sdktrace.SpanExporter
	var err error
	switch exporterKind {
	case "otlp":
		endpoint := utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318", log)
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
	default:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("plately-backend"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("tracing configured", "exporter", exporterKind)
	return tp.Shutdown, nil
}
