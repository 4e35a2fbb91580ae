// Package cex fetches order books from a centralized exchange REST endpoint.
package cex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/dynfee-amm/business/market/domain"
	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/circuitbreaker"
	"github.com/fd1az/dynfee-amm/internal/httpclient"
	"github.com/fd1az/dynfee-amm/internal/logger"
	"github.com/fd1az/dynfee-amm/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/dynfee-amm/business/market/infra/cex"
	meterName  = "github.com/fd1az/dynfee-amm/business/market/infra/cex"

	depthEndpoint = "/api/v3/depth"
	httpTimeout   = 5 * time.Second
)

// ClientConfig holds configuration for the order book client.
type ClientConfig struct {
	BaseURL           string
	Symbol            string
	Depth             int
	Timeout           time.Duration
	RequestsPerMinute int
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	fetches  metric.Int64Counter
	errors   metric.Int64Counter
	pressure metric.Float64Gauge
}

// Client fetches depth snapshots through a rate limiter and circuit breaker.
type Client struct {
	config  ClientConfig
	http    *httpclient.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[*domain.Orderbook]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates an order book client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("cex base url is required"))
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = httpTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.New(httpclient.Config{
		Name:    "cex",
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithCause(err))
	}

	c := &Client{
		config:  cfg,
		http:    client,
		limiter: ratelimit.PerMinute(cfg.RequestsPerMinute),
		logger:  log,
		tracer:  tracer,
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("cex-orderbook")
	cbCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"name", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[*domain.Orderbook](cbCfg)

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.fetches, err = meter.Int64Counter(
		"cex_orderbook_fetches_total",
		metric.WithDescription("Order book fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	c.metrics.errors, err = meter.Int64Counter(
		"cex_orderbook_errors_total",
		metric.WithDescription("Failed order book fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.pressure, err = meter.Float64Gauge(
		"cex_l1_pressure",
		metric.WithDescription("Last observed top-of-book pressure"),
	)
	return err
}

// depthResponse accepts levels as [price, qty] with string or number entries.
type depthResponse struct {
	Bids [][]json.Number `json:"bids"`
	Asks [][]json.Number `json:"asks"`
}

// Orderbook fetches the current depth snapshot.
func (c *Client) Orderbook(ctx context.Context) (*domain.Orderbook, error) {
	ctx, span := c.tracer.Start(ctx, "cex.orderbook",
		trace.WithAttributes(attribute.String("symbol", c.config.Symbol)),
	)
	defer span.End()

	c.metrics.fetches.Add(ctx, 1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.fail(ctx, span, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err)))
	}

	ob, err := c.cb.Execute(func() (*domain.Orderbook, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			err = apperror.New(apperror.CodeCircuitOpen,
				apperror.WithCause(err),
				apperror.WithContext("cex order book"))
		}
		return nil, c.fail(ctx, span, err)
	}

	if p, perr := ob.L1Pressure(); perr == nil {
		c.metrics.pressure.Record(ctx, p)
		span.SetAttributes(attribute.Float64("l1_pressure", p))
	}
	span.SetStatus(codes.Ok, "fetched")

	return ob, nil
}

func (c *Client) fetch(ctx context.Context) (*domain.Orderbook, error) {
	query := url.Values{}
	if c.config.Symbol != "" {
		query.Set("symbol", c.config.Symbol)
	}
	if c.config.Depth > 0 {
		query.Set("limit", strconv.Itoa(c.config.Depth))
	}

	var result depthResponse
	if err := c.http.GetJSON(ctx, depthEndpoint, query, &result); err != nil {
		msg := "failed to fetch depth"
		if code := httpclient.StatusCode(err); code != 0 {
			msg = fmt.Sprintf("depth endpoint returned %d", code)
		}
		return nil, apperror.New(apperror.CodeOrderbookFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(msg))
	}

	bids, err := parseLevels(result.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := parseLevels(result.Asks)
	if err != nil {
		return nil, err
	}

	ob := &domain.Orderbook{
		Symbol:    c.config.Symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now(),
	}
	if err := ob.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "fetched order book",
		"symbol", c.config.Symbol,
		"bids", len(bids),
		"asks", len(asks))

	return ob, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, err error) error {
	c.metrics.errors.Add(ctx, 1)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func parseLevels(raw [][]json.Number) ([]domain.Level, error) {
	levels := make([]domain.Level, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			return nil, apperror.New(apperror.CodeInvalidOrderbook,
				apperror.WithContext(fmt.Sprintf("level has %d fields", len(entry))))
		}
		price, err := decimal.NewFromString(entry[0].String())
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
		}
		size, err := decimal.NewFromString(entry[1].String())
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidOrderbook, apperror.WithCause(err))
		}
		levels = append(levels, domain.Level{Price: price, Size: size})
	}
	return levels, nil
}
