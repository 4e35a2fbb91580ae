// Package pool implements the dynamic-fee AMM bounded context.
package pool

import (
	"context"

	marketDI "github.com/fd1az/dynfee-amm/business/market/di"
	"github.com/fd1az/dynfee-amm/business/pool/app"
	poolDI "github.com/fd1az/dynfee-amm/business/pool/di"
	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/di"
	"github.com/fd1az/dynfee-amm/internal/logger"
	"github.com/fd1az/dynfee-amm/internal/monolith"
)

// Module implements the pool bounded context.
type Module struct{}

// Name implements monolith.Module.
func (m *Module) Name() string { return "pool" }

// RegisterServices registers the engine factory and the signal feed.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, poolDI.EngineFactory, func(sr di.ServiceRegistry) *app.EngineFactory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		engineCfg, err := app.EngineConfigFrom(cfg.Pool)
		if err != nil {
			panic("invalid pool config: " + err.Error())
		}
		f, err := app.NewEngineFactory(engineCfg, log)
		if err != nil {
			panic("failed to create engine factory: " + err.Error())
		}
		return f
	})

	di.RegisterToken(c, poolDI.SignalFeed, func(sr di.ServiceRegistry) *app.SignalFeed {
		svc := marketDI.GetMarketService(sr)
		return app.NewSignalFeed(svc, svc)
	})

	return nil
}

// Startup resolves the factory so configuration errors surface early.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	f := poolDI.GetEngineFactory(mono.Services())
	cfg := f.Config()

	mono.Logger().Info(ctx, "pool module started",
		"initial_price", cfg.InitialPrice,
		"liquidity", cfg.Liquidity,
		"base_fee", cfg.BaseFee,
		"pressure_weight", cfg.PressureWeight)
	return nil
}
