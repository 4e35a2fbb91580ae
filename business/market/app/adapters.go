package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/dynfee-amm/business/market/domain"
)

// OrderbookPressure turns an order book source into a pressure source.
type OrderbookPressure struct {
	source OrderbookSource
	depth  int
}

// NewOrderbookPressure uses L1 pressure for depth 1 and L2 beyond.
func NewOrderbookPressure(source OrderbookSource, depth int) *OrderbookPressure {
	return &OrderbookPressure{source: source, depth: max(1, depth)}
}

func (p *OrderbookPressure) Pressure(ctx context.Context) (float64, error) {
	ob, err := p.source.Orderbook(ctx)
	if err != nil {
		return 0, err
	}
	return ob.L2Pressure(p.depth)
}

// OracleGas prices a fixed gas limit with a live gas price.
type OracleGas struct {
	oracle   GasPriceOracle
	gasLimit uint64
}

func NewOracleGas(oracle GasPriceOracle, gasLimit uint64) *OracleGas {
	return &OracleGas{oracle: oracle, gasLimit: gasLimit}
}

func (g *OracleGas) Gas(ctx context.Context, price float64) (float64, error) {
	gp, err := g.oracle.GasPrice(ctx)
	if err != nil {
		return 0, err
	}
	cost := domain.NewGasCost(g.gasLimit, gp.Wei, decimal.NewFromFloat(price))
	return cost.Y.InexactFloat64(), nil
}
