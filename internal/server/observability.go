package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/observability/tracer"
)

// ObservabilityShutdownFunc is the function type returned by InitObservability
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry tracing and the Prometheus
// metrics endpoint.
func InitObservability(serviceName, metricsAddr string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	shutdown, err := tracer.InitProviders(serviceName, metricsAddr, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.Info("Observability initialized", zap.String("metrics_endpoint", metricsAddr+"/metrics"))
	return shutdown, nil
}
