// Package app contains the pool engine and its port definitions.
package app

import (
	"context"
)

// PressureProvider supplies order-book pressure in [-1,1] once per block.
type PressureProvider interface {
	Pressure(ctx context.Context) (float64, error)
}

// GasSource supplies the gas cost, in Y, of one trade at the given price.
type GasSource interface {
	Gas(ctx context.Context, price float64) (float64, error)
}
