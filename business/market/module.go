// Package market implements the market-signal bounded context: order book
// pressure and gas cost fed to the pool engines.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/fd1az/dynfee-amm/business/market/app"
	marketDI "github.com/fd1az/dynfee-amm/business/market/di"
	"github.com/fd1az/dynfee-amm/business/market/infra/cex"
	"github.com/fd1az/dynfee-amm/business/market/infra/ethereum"
	"github.com/fd1az/dynfee-amm/business/market/infra/static"
	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/di"
	"github.com/fd1az/dynfee-amm/internal/logger"
	"github.com/fd1az/dynfee-amm/internal/monolith"
)

// Module implements the market bounded context.
type Module struct{}

// Name implements monolith.Module.
func (m *Module) Name() string { return "market" }

// RegisterServices registers the signal sources and the MarketService.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, marketDI.PressureSource, func(sr di.ServiceRegistry) app.PressureSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pc := cfg.Market.Pressure
		if pc.Source != "cex" {
			return static.NeutralPressure{}
		}

		client, err := cex.NewClient(cex.ClientConfig{
			BaseURL:           pc.URL,
			Symbol:            pc.Symbol,
			Depth:             pc.Depth,
			Timeout:           pc.Timeout,
			RequestsPerMinute: pc.RequestsPerMinute,
		}, log)
		if err != nil {
			panic("failed to create cex client: " + err.Error())
		}
		return app.NewOrderbookPressure(client, pc.Levels)
	})

	di.RegisterToken(c, marketDI.GasSource, func(sr di.ServiceRegistry) app.GasSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		gc := cfg.Market.Gas
		if gc.Source != "ethereum" {
			return static.FixedGas(cfg.Simulation.GasCost)
		}

		oracle, err := ethereum.NewGasOracle(ethereum.GasOracleConfig{
			RPCURL:      gc.RPCURL,
			CacheTTL:    gc.CacheTTL,
			MaxGasPrice: gc.MaxGasPriceWei(),
		}, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return &oracleGas{OracleGas: app.NewOracleGas(oracle, gc.GasLimit), oracle: oracle}
	})

	di.RegisterToken(c, marketDI.MarketService, func(sr di.ServiceRegistry) *app.MarketService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewMarketService(
			marketDI.GetPressureSource(sr),
			marketDI.GetGasSource(sr),
			cfg.Simulation.GasCost,
			log,
		)
	})

	return nil
}

// oracleGas keeps the oracle reachable for Startup and shutdown.
type oracleGas struct {
	*app.OracleGas
	oracle *ethereum.GasOracle
}

// Startup connects live sources and registers health checks.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	svc := marketDI.GetMarketService(mono.Services())

	if og, ok := marketDI.GetGasSource(mono.Services()).(*oracleGas); ok {
		if err := og.oracle.Connect(ctx); err != nil {
			// The service falls back to the fixed gas cost until the node is reachable.
			log.Error(ctx, "failed to connect gas oracle", "error", err)
		}
		mono.OnClose(og.oracle.Close)

		if hs := mono.Health(); hs != nil {
			hs.RegisterCheck("gas_oracle", func(context.Context) (string, error) {
				if !og.oracle.Connected() {
					return "", errors.New("not connected")
				}
				return og.oracle.BreakerState().String(), nil
			})
		}
	}

	if hs := mono.Health(); hs != nil {
		hs.RegisterCheck("market_signals", func(context.Context) (string, error) {
			pressure, gas := svc.Failures()
			return fmt.Sprintf("pressure_failures=%d gas_failures=%d", pressure, gas), nil
		})
	}

	cfg := mono.Config()
	log.Info(ctx, "market module started",
		"pressure_source", cfg.Market.Pressure.Source,
		"gas_source", cfg.Market.Gas.Source)
	return nil
}
