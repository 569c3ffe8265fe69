package services

import "context"

// MetricsRecorder receives business counters. *aws.MetricsClient
// satisfies it.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// Business metric names.
const (
	MetricCartCheckouts   = "CartCheckouts"
	MetricOrdersFailed    = "OrdersFailed"
	MetricCouponsApplied  = "CouponsApplied"
	MetricCouponsRejected = "CouponsRejected"
)

type nopRecorder struct{}

func (nopRecorder) RecordCount(context.Context, string, map[string]string) error { return nil }

func recorderOrNop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return nopRecorder{}
	}
	return m
}
