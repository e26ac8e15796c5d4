// Package telemetry provides OpenTelemetry metrics for bugdash.
//
// Telemetry is disabled by default (no-op providers, zero overhead).
//
// # Configuration
//
//	BUGDASH_OTEL_ENABLED=true   enable metrics (default: off)
//	OTEL_SERVICE_NAME=bugdash   override service name
//
// Metrics are written to stderr via the stdout exporter on shutdown; wiring
// a collector exporter is left to deployments that need one.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const instrumentationScope = "github.com/bugdash/bugdash"

var (
	shutdownFn func(context.Context) error

	bugsImported        metric.Int64Counter
	attachmentsImported metric.Int64Counter
	importDuration      metric.Float64Histogram
)

// Enabled reports whether telemetry is active (BUGDASH_OTEL_ENABLED=true).
func Enabled() bool {
	return os.Getenv("BUGDASH_OTEL_ENABLED") == "true"
}

// Init configures the meter provider. When BUGDASH_OTEL_ENABLED is not
// "true" this installs a no-op provider and returns immediately.
func Init(ctx context.Context, serviceName, version string) error {
	if !Enabled() {
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return initInstruments()
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("telemetry: exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
	)
	otel.SetMeterProvider(mp)
	shutdownFn = mp.Shutdown

	return initInstruments()
}

func initInstruments() error {
	meter := otel.GetMeterProvider().Meter(instrumentationScope)

	var err error
	bugsImported, err = meter.Int64Counter("bugdash.import.bugs",
		metric.WithDescription("Bugs committed by import batches"))
	if err != nil {
		return fmt.Errorf("telemetry: counter: %w", err)
	}
	attachmentsImported, err = meter.Int64Counter("bugdash.import.attachments",
		metric.WithDescription("Attachment links committed by import batches"))
	if err != nil {
		return fmt.Errorf("telemetry: counter: %w", err)
	}
	importDuration, err = meter.Float64Histogram("bugdash.import.duration",
		metric.WithDescription("Wall time of import batches"),
		metric.WithUnit("s"))
	if err != nil {
		return fmt.Errorf("telemetry: histogram: %w", err)
	}
	return nil
}

// RecordImport records one import batch outcome. Safe to call before Init;
// instruments are nil until then and the call is dropped.
func RecordImport(ctx context.Context, bugs, attachments int, elapsed time.Duration, ok bool) {
	if bugsImported == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", ok))
	bugsImported.Add(ctx, int64(bugs), attrs)
	attachmentsImported.Add(ctx, int64(attachments), attrs)
	importDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// Shutdown flushes pending metrics. No-op when telemetry is disabled.
func Shutdown(ctx context.Context) error {
	if shutdownFn == nil {
		return nil
	}
	return shutdownFn(ctx)
}
