package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/fd1az/dynfee-amm/business/pool/app"

// engineMetrics holds OTEL metric instruments.
type engineMetrics struct {
	trades       metric.Int64Counter
	feeRate      metric.Float64Histogram
	cutOff       metric.Float64Gauge
	feeWarnings  metric.Int64Counter
	blocksClosed metric.Int64Counter
}

func newEngineMetrics() (*engineMetrics, error) {
	meter := otel.Meter(meterName)
	m := &engineMetrics{}
	var err error

	m.trades, err = meter.Int64Counter(
		"amm_trades_total",
		metric.WithDescription("Trade calls by outcome"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return nil, err
	}

	m.feeRate, err = meter.Float64Histogram(
		"amm_fee_rate",
		metric.WithDescription("Blended fee rate charged per trade call"),
		metric.WithExplicitBucketBoundaries(0.001, 0.002, 0.003, 0.004, 0.005, 0.0075, 0.01, 0.02, 0.05),
	)
	if err != nil {
		return nil, err
	}

	m.cutOff, err = meter.Float64Gauge(
		"amm_cutoff_percentile",
		metric.WithDescription("Current submitted-fee cut-off percentile"),
	)
	if err != nil {
		return nil, err
	}

	m.feeWarnings, err = meter.Int64Counter(
		"amm_submitted_fee_warnings_total",
		metric.WithDescription("Submitted fees outside the accepted range"),
		metric.WithUnit("{fee}"),
	)
	if err != nil {
		return nil, err
	}

	m.blocksClosed, err = meter.Int64Counter(
		"amm_blocks_total",
		metric.WithDescription("Block transitions observed by the engine"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
