// Пакет telemetry — трассировка OpenTelemetry с экспортом по OTLP/gRPC.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Options — параметры трассировки. Пустой Endpoint отключает экспорт.
type Options struct {
	ServiceName string
	Version     string
	Endpoint    string
	Insecure    bool
}

// ShutdownFunc сбрасывает накопленные спаны и останавливает провайдер.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup регистрирует глобальный TracerProvider и W3C-пропагатор.
// Без Endpoint возвращается пустой ShutdownFunc, провайдер не меняется.
func Setup(ctx context.Context, opts Options, logger *slog.Logger) (ShutdownFunc, error) {
	logger = logger.With(slog.String("component", "telemetry"))
	if opts.Endpoint == "" {
		logger.Debug("OTLP endpoint не задан, трассировка отключена")
		return noop, nil
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return noop, fmt.Errorf("создание OTLP-экспортёра: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(opts.Version),
	))
	if err != nil {
		return noop, fmt.Errorf("создание ресурса трассировки: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("Трассировка включена",
		slog.String("endpoint", opts.Endpoint),
		slog.String("service", opts.ServiceName),
	)
	return provider.Shutdown, nil
}
