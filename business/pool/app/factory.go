package app

import (
	"github.com/fd1az/dynfee-amm/business/pool/domain"
	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

// EngineConfigFrom maps the pool config section onto an EngineConfig.
func EngineConfigFrom(pc config.PoolConfig) (EngineConfig, error) {
	surcharge, err := domain.ParseSurchargePolicy(pc.Surcharge.Policy,
		pc.Surcharge.Factor, pc.Surcharge.LiquidityThreshold, pc.Surcharge.SlippageThreshold)
	if err != nil {
		return EngineConfig{}, err
	}

	return EngineConfig{
		InitialPrice:         pc.InitialPrice,
		Liquidity:            pc.Liquidity,
		BaseFee:              pc.BaseFee,
		Alpha:                pc.Alpha,
		M:                    pc.M,
		N:                    pc.N,
		IntentThreshold:      pc.IntentThreshold,
		SubmittedFeeMultiple: pc.SubmittedFeeMultiple,
		PressureWeight:       pc.PressureWeight,
		Surcharge:            surcharge,
	}, nil
}

// EngineFactory builds independent engines from one validated config.
type EngineFactory struct {
	cfg EngineConfig
	log logger.LoggerInterface
}

// NewEngineFactory validates cfg by building a throwaway engine.
func NewEngineFactory(cfg EngineConfig, log logger.LoggerInterface) (*EngineFactory, error) {
	if _, err := NewEngine(cfg, log); err != nil {
		return nil, err
	}
	return &EngineFactory{cfg: cfg, log: log}, nil
}

// New returns a fresh engine at the initial price.
func (f *EngineFactory) New() (*Engine, error) {
	return NewEngine(f.cfg, f.log)
}

// Config returns the engine config the factory was built with.
func (f *EngineFactory) Config() EngineConfig { return f.cfg }
