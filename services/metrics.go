package services

import (
	"context"

	"go.uber.org/zap"
)

const metricsServiceDimension = "order-care-service"

// MetricsRecorder counts business events. *aws.MetricsClient satisfies it;
// a nil recorder disables counting.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	IsEnabled() bool
}

// recordCount increments a business counter. Failures are logged and never
// fail the request.
func recordCount(ctx context.Context, metrics MetricsRecorder, logger *zap.Logger, metricName string) {
	if metrics == nil || !metrics.IsEnabled() {
		return
	}
	dims := map[string]string{"Service": metricsServiceDimension}
	if err := metrics.RecordCount(ctx, metricName, dims); err != nil {
		logger.Warn("Failed to record metric", zap.String("metric", metricName), zap.Error(err))
	}
}
