package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/softwarewrighter/midi-cli/internal/logger"
)

const (
	namespace                = "MIDICLI/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// MetricPutter is the CloudWatch call the client needs. *cloudwatch.Client
// satisfies it.
type MetricPutter interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      MetricPutter
	enabled     bool
	environment string
	async       bool
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		logger.Info("CloudWatch metrics disabled", logger.Fields{"environment": environment})
		return &Client{environment: environment}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Warn("Failed to load AWS config for CloudWatch", logger.Fields{"error": err.Error()})
		return &Client{environment: environment}, nil
	}

	logger.Info("CloudWatch metrics enabled", logger.Fields{"namespace": namespace})
	return NewClientWith(cloudwatch.NewFromConfig(cfg), environment), nil
}

// NewClientWith builds an enabled client around an existing CloudWatch API.
func NewClientWith(client MetricPutter, environment string) *Client {
	return &Client{client: client, enabled: true, environment: environment, async: true}
}

// Enabled reports whether metrics are being sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	m.send(func(ctx context.Context) {
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := []types.Dimension{
			{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}

		m.putOrLog(ctx, metricName, 1, types.StandardUnitCount, dimensions)
		m.putOrLog(ctx, "APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	})
}

// RecordGeneration records one composition: its latency, note count and
// outcome, per mood
func (m *Client) RecordGeneration(mood string, notes int, duration time.Duration, success bool) {
	if !m.Enabled() {
		return
	}

	m.send(func(ctx context.Context) {
		dimensions := []types.Dimension{
			{Name: aws.String("Mood"), Value: aws.String(mood)},
			{Name: aws.String("Success"), Value: aws.String(boolToString(success))},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}

		m.putOrLog(ctx, "GenerationDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
		if success {
			m.putOrLog(ctx, "GeneratedNotes", float64(notes), types.StandardUnitCount, dimensions)
		}
	})
}

// RecordRender records a FluidSynth render
func (m *Client) RecordRender(duration time.Duration, success bool) {
	if !m.Enabled() {
		return
	}

	m.send(func(ctx context.Context) {
		dimensions := []types.Dimension{
			{Name: aws.String("Success"), Value: aws.String(boolToString(success))},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}
		m.putOrLog(ctx, "RenderDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	})
}

func (m *Client) send(fn func(ctx context.Context)) {
	if m.async {
		go fn(context.Background())
		return
	}
	fn(context.Background())
}

func (m *Client) putOrLog(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions []types.Dimension) {
	if err := m.putMetric(ctx, metricName, value, unit, dimensions); err != nil {
		logger.Warn("Failed to record metric", logger.Fields{"metric": metricName, "error": err.Error()})
	}
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	ctx context.Context,
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
