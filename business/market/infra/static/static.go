// Package static provides market signal sources that need no network.
package static

import "context"

// NeutralPressure always reports balanced books.
type NeutralPressure struct{}

func (NeutralPressure) Pressure(context.Context) (float64, error) { return 0, nil }

// FixedGas charges a constant Y amount per trade.
type FixedGas float64

func (g FixedGas) Gas(context.Context, float64) (float64, error) { return float64(g), nil }
