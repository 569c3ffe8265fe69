package aws_test

import (
	"context"
	"errors"
	"testing"
	"time"

	awspkg "womart-storefront/pkg/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakePutter) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetricsClient_RecordCount(t *testing.T) {
	fake := &fakePutter{}
	cw := awspkg.NewMetricsClientWithAPI(fake, "")

	require.NoError(t, cw.RecordCount(context.Background(), "CartCheckouts", map[string]string{"Service": "storefront"}))
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, awspkg.DefaultMetricsNamespace, aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 1)
	datum := in.MetricData[0]
	assert.Equal(t, "CartCheckouts", aws.ToString(datum.MetricName))
	assert.Equal(t, 1.0, aws.ToFloat64(datum.Value))
	assert.Equal(t, types.StandardUnitCount, datum.Unit)
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, "Service", aws.ToString(datum.Dimensions[0].Name))
}

func TestMetricsClient_RecordLatency(t *testing.T) {
	fake := &fakePutter{}
	cw := awspkg.NewMetricsClientWithAPI(fake, "Test")

	require.NoError(t, cw.RecordLatency(context.Background(), awspkg.MetricHTTPLatency, 1500*time.Millisecond, nil))
	datum := fake.inputs[0].MetricData[0]
	assert.Equal(t, 1500.0, aws.ToFloat64(datum.Value))
	assert.Equal(t, types.StandardUnitMilliseconds, datum.Unit)
	assert.Equal(t, "Test", aws.ToString(fake.inputs[0].Namespace))
}

func TestMetricsClient_ErrorIsWrapped(t *testing.T) {
	boom := errors.New("throttled")
	cw := awspkg.NewMetricsClientWithAPI(&fakePutter{err: boom}, "Test")

	err := cw.RecordCount(context.Background(), "X", nil)
	assert.ErrorIs(t, err, boom)
}

func TestMetricsClient_DisabledDropsData(t *testing.T) {
	cw, err := awspkg.NewMetricsClient(context.Background(), false, "Test")
	require.NoError(t, err)
	assert.False(t, cw.IsEnabled())
	assert.NoError(t, cw.RecordCount(context.Background(), "X", nil))

	var nilClient *awspkg.MetricsClient
	assert.False(t, nilClient.IsEnabled())
	assert.NoError(t, nilClient.RecordLatency(context.Background(), "X", time.Second, nil))
}
