package app

import (
	"context"
)

// SignalFeed polls the market signals once per block on behalf of an engine.
type SignalFeed struct {
	pressure PressureProvider
	gas      GasSource
}

func NewSignalFeed(pressure PressureProvider, gas GasSource) *SignalFeed {
	return &SignalFeed{pressure: pressure, gas: gas}
}

// OpenBlock injects the current pressure into e and returns the gas cost in Y
// of one trade at e's current price.
func (f *SignalFeed) OpenBlock(ctx context.Context, e *Engine) (float64, error) {
	p, err := f.pressure.Pressure(ctx)
	e.InjectPressure(ctx, p, err)

	return f.gas.Gas(ctx, e.Price())
}
