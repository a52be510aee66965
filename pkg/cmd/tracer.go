package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-recraft/pkg/otelhelper"
)

// NewTracer installs the OTLP tracer provider when enabled. The returned function flushes and
// stops it; it is a no-op when tracing is disabled.
func NewTracer(ctx context.Context, log *slog.Logger, enabled bool, serviceName string) (func(context.Context), error) {
	if !enabled {
		return func(context.Context) {}, nil
	}

	tp, err := otelhelper.NewTracerProvider(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Tracing enabled", "service", serviceName)

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			log.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}, nil
}
