// Package ethereum reads the network gas price from an Ethereum JSON-RPC node.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/dynfee-amm/business/market/domain"
	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/cache"
	"github.com/fd1az/dynfee-amm/internal/circuitbreaker"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

const (
	tracerName = "github.com/fd1az/dynfee-amm/business/market/infra/ethereum"
	meterName  = "github.com/fd1az/dynfee-amm/business/market/infra/ethereum"

	priceKey = "current"
)

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	RPCURL      string
	CacheTTL    time.Duration // roughly one block
	MaxGasPrice *big.Int      // readings above this are capped
}

// rpcClient is the subset of ethclient.Client the oracle needs.
type rpcClient interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Close()
}

type gasOracleMetrics struct {
	fetches     metric.Int64Counter
	gwei        metric.Float64Gauge
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	capped      metric.Int64Counter
}

// GasOracle serves cached gas prices through a circuit breaker.
type GasOracle struct {
	config GasOracleConfig
	logger logger.LoggerInterface

	client   rpcClient
	clientMu sync.RWMutex

	prices *cache.Cache[string, *domain.GasPrice]
	cb     *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

// NewGasOracle creates a gas oracle. Connect must be called before GasPrice.
func NewGasOracle(cfg GasOracleConfig, log logger.LoggerInterface) (*GasOracle, error) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 12 * time.Second
	}

	g := &GasOracle{
		config: cfg,
		logger: log,
		prices: cache.New[string, *domain.GasPrice](time.Minute),
		tracer: otel.Tracer(tracerName),
	}

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("gas-oracle")
	cbCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"name", name, "from", from.String(), "to", to.String())
	}
	g.cb = circuitbreaker.New[*big.Int](cbCfg)

	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Gas price RPC calls"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	g.metrics.gwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	g.metrics.capped, err = meter.Int64Counter(
		"gas_price_capped_total",
		metric.WithDescription("Gas price readings capped at the configured maximum"),
	)
	return err
}

// Connect dials the RPC node.
func (g *GasOracle) Connect(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "gas.connect",
		trace.WithAttributes(attribute.String("url", g.config.RPCURL)),
	)
	defer span.End()

	client, err := ethclient.DialContext(ctx, g.config.RPCURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to connect gas oracle"))
	}

	g.setClient(client)

	span.SetStatus(codes.Ok, "connected")
	g.logger.Info(ctx, "gas oracle connected", "url", g.config.RPCURL)

	return nil
}

func (g *GasOracle) setClient(c rpcClient) {
	g.clientMu.Lock()
	g.client = c
	g.clientMu.Unlock()
}

// Connected reports whether an RPC client is attached.
func (g *GasOracle) Connected() bool {
	g.clientMu.RLock()
	defer g.clientMu.RUnlock()
	return g.client != nil
}

// BreakerState returns the state of the RPC circuit breaker.
func (g *GasOracle) BreakerState() circuitbreaker.State {
	return g.cb.State()
}

// GasPrice returns the current gas price, served from cache within CacheTTL.
func (g *GasOracle) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.price")
	defer span.End()

	if price, found := g.prices.Get(ctx, priceKey); found {
		g.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return price, nil
	}
	g.metrics.cacheMisses.Add(ctx, 1)

	g.clientMu.RLock()
	client := g.client
	g.clientMu.RUnlock()

	if client == nil {
		err := apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("gas oracle not connected"))
		span.RecordError(err)
		return nil, err
	}

	g.metrics.fetches.Add(ctx, 1)
	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		code := apperror.CodeEthereumRPCError
		if circuitbreaker.IsOpen(err) {
			code = apperror.CodeCircuitOpen
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.New(code,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	if g.config.MaxGasPrice != nil && wei.Cmp(g.config.MaxGasPrice) > 0 {
		g.metrics.capped.Add(ctx, 1)
		g.logger.Warn(ctx, "gas price exceeds max",
			"wei", wei.String(),
			"max", g.config.MaxGasPrice.String())
		wei = new(big.Int).Set(g.config.MaxGasPrice)
	}

	price := domain.NewGasPrice(wei)
	g.prices.Set(ctx, priceKey, price, g.config.CacheTTL)
	g.metrics.gwei.Record(ctx, price.Gwei())

	span.SetAttributes(attribute.Float64("gwei", price.Gwei()))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// Close releases the RPC connection and stops the cache sweeper.
func (g *GasOracle) Close() error {
	g.clientMu.Lock()
	defer g.clientMu.Unlock()

	if g.client != nil {
		g.client.Close()
		g.client = nil
	}
	g.prices.Close()

	return nil
}
