// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/fd1az/dynfee-amm/business/market/domain"
)

// OrderbookSource fetches an order book snapshot.
type OrderbookSource interface {
	Orderbook(ctx context.Context) (*domain.Orderbook, error)
}

// GasPriceOracle reports the current network gas price.
type GasPriceOracle interface {
	GasPrice(ctx context.Context) (*domain.GasPrice, error)
}

// PressureSource produces an order-book pressure value in [-1,1].
type PressureSource interface {
	Pressure(ctx context.Context) (float64, error)
}

// GasSource produces the cost of one trade in Y at the given X price.
type GasSource interface {
	Gas(ctx context.Context, price float64) (float64, error)
}
