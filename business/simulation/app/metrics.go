package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	tracerName = "github.com/fd1az/dynfee-amm/business/simulation/app"
	meterName  = "github.com/fd1az/dynfee-amm/business/simulation/app"
)

type runnerMetrics struct {
	paths        metric.Int64Counter
	pathDuration metric.Float64Histogram
	blocks       metric.Int64Counter
}

func newRunnerMetrics() (*runnerMetrics, error) {
	meter := otel.Meter(meterName)
	var err error

	m := &runnerMetrics{}

	m.paths, err = meter.Int64Counter(
		"simulation_paths_total",
		metric.WithDescription("Completed simulation paths"),
		metric.WithUnit("{path}"),
	)
	if err != nil {
		return nil, err
	}

	m.pathDuration, err = meter.Float64Histogram(
		"simulation_path_duration_seconds",
		metric.WithDescription("Wall time per simulated path"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.blocks, err = meter.Int64Counter(
		"simulation_blocks_total",
		metric.WithDescription("Simulated blocks"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
