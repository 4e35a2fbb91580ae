package app

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

// MarketService feeds the per-block market signals to the pool engines.
type MarketService struct {
	pressure    PressureSource
	gas         GasSource
	fallbackGas float64
	logger      logger.LoggerInterface

	pressureFailures atomic.Int64
	gasFailures      atomic.Int64
}

// NewMarketService creates a MarketService. fallbackGas is used whenever the
// gas source fails.
func NewMarketService(pressure PressureSource, gas GasSource, fallbackGas float64, log logger.LoggerInterface) *MarketService {
	return &MarketService{
		pressure:    pressure,
		gas:         gas,
		fallbackGas: fallbackGas,
		logger:      log,
	}
}

// Pressure returns the current pressure. Errors are passed through so the
// engine can neutralise them.
func (s *MarketService) Pressure(ctx context.Context) (float64, error) {
	p, err := s.pressure.Pressure(ctx)
	if err != nil {
		s.pressureFailures.Add(1)
		return 0, apperror.New(apperror.CodeSignalProviderFailure,
			apperror.WithCause(err),
			apperror.WithSeverity(apperror.SeverityWarning))
	}
	return p, nil
}

// Gas returns the gas cost in Y, falling back to the configured fixed cost.
func (s *MarketService) Gas(ctx context.Context, price float64) (float64, error) {
	g, err := s.gas.Gas(ctx, price)
	if err == nil && g >= 0 && !math.IsNaN(g) && !math.IsInf(g, 0) {
		return g, nil
	}

	s.gasFailures.Add(1)
	if err == nil {
		err = apperror.New(apperror.CodeGasSourceFailure, apperror.WithContext("non-finite gas cost"))
	}
	s.logger.Warn(ctx, "gas source failed, using fallback",
		"fallback", s.fallbackGas,
		"code", string(apperror.GetCode(err)),
		"error", err)
	return s.fallbackGas, nil
}

// Failures returns the number of pressure and gas source failures so far.
func (s *MarketService) Failures() (pressure, gas int64) {
	return s.pressureFailures.Load(), s.gasFailures.Load()
}
