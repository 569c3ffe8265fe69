package middleware

import (
	"context"
	"time"

	awspkg "womart-storefront/pkg/aws"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder is the metrics sink used for request metrics.
type HTTPRecorder interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// Metrics records request count, latency and errors per route. Data points
// are sent off the request path.
func Metrics(recorder HTTPRecorder, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": service,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = recorder.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = recorder.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = recorder.RecordCount(ctx, awspkg.MetricHTTPErrors, dims)
				if status >= 500 {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP5xx, dims)
				} else {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP4xx, dims)
				}
			}
		}()
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
