package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// HTTP metric names.
const (
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPErrors   = "HTTPErrors"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"
)

const DefaultMetricsNamespace = "WoMart/Storefront"

// PutMetricDataAPI is the part of the CloudWatch client used here.
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient publishes counters and latencies. A nil or disabled client
// drops every data point.
type MetricsClient struct {
	client    PutMetricDataAPI
	namespace string
	enabled   bool
	now       func() time.Time
}

// NewMetricsClient loads the AWS configuration and builds an enabled client.
// When enabled is false no AWS configuration is loaded.
func NewMetricsClient(ctx context.Context, enabled bool, namespace string) (*MetricsClient, error) {
	if !enabled {
		return &MetricsClient{namespace: namespace}, nil
	}

	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewMetricsClientWithAPI(cloudwatch.NewFromConfig(cfg), namespace), nil
}

// NewMetricsClientWithAPI wraps an existing client; the result is enabled.
func NewMetricsClientWithAPI(client PutMetricDataAPI, namespace string) *MetricsClient {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	return &MetricsClient{
		client:    client,
		namespace: namespace,
		enabled:   client != nil,
		now:       time.Now,
	}
}

// PutMetric sends a single data point.
func (m *MetricsClient) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	if !m.IsEnabled() {
		return nil
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(m.now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put metric %s: %w", metricName, err)
	}
	return nil
}

// RecordCount increments a counter metric
func (m *MetricsClient) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

// RecordLatency records a duration in milliseconds
func (m *MetricsClient) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

// IsEnabled returns whether data points are published
func (m *MetricsClient) IsEnabled() bool {
	return m != nil && m.enabled && m.client != nil
}
