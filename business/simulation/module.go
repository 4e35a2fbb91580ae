// Package simulation implements the Monte-Carlo bounded context that drives
// pool engines along simulated price paths.
package simulation

import (
	"context"
	"fmt"

	poolDI "github.com/fd1az/dynfee-amm/business/pool/di"
	"github.com/fd1az/dynfee-amm/business/simulation/app"
	simDI "github.com/fd1az/dynfee-amm/business/simulation/di"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
	"github.com/fd1az/dynfee-amm/business/simulation/infra"
	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/di"
	"github.com/fd1az/dynfee-amm/internal/logger"
	"github.com/fd1az/dynfee-amm/internal/monolith"
)

// Module implements the simulation bounded context.
type Module struct{}

// Name implements monolith.Module.
func (m *Module) Name() string { return "simulation" }

// RunnerConfigFrom maps the simulation and pool config sections onto a RunnerConfig.
func RunnerConfigFrom(cfg *config.Config) app.RunnerConfig {
	sc := cfg.Simulation
	path := domain.PathParams{
		InitialPrice: cfg.Pool.InitialPrice,
		DailySigma:   sc.DailySigma,
		BlocksPerDay: sc.BlocksPerDay(),
		Days:         sc.Days,
	}

	return app.RunnerConfig{
		Path: path,
		Flow: domain.FlowParams{
			InformedRatio:  sc.InformedRatio,
			SubmitFeeRatio: sc.SubmitFeeRatio,
			BaseFee:        cfg.Pool.BaseFee,
			Swappers:       sc.SwapperPool,
			NoiseSigma:     path.BlockSigma(),
		},
		Paths:         sc.Paths,
		SwapsPerBlock: sc.SwapsPerBlock,
		Seed:          sc.Seed,
		Workers:       sc.Workers,
		FallbackGas:   sc.GasCost,
	}
}

// RegisterServices registers the reporter and the runner.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, simDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.App.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter(nil)
	})

	di.RegisterToken(c, simDI.Runner, func(sr di.ServiceRegistry) *app.Runner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		r, err := app.NewRunner(
			RunnerConfigFrom(cfg),
			poolDI.GetEngineFactory(sr),
			poolDI.GetSignalFeed(sr),
			simDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create runner: " + err.Error())
		}
		return r
	})

	return nil
}

// Startup resolves the runner and hooks the reporter into shutdown.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	runner := simDI.GetRunner(mono.Services())
	mono.OnClose(simDI.GetReporter(mono.Services()).Stop)

	if hs := mono.Health(); hs != nil {
		hs.RegisterCheck("simulation", func(context.Context) (string, error) {
			done, total := runner.Progress()
			return fmt.Sprintf("%d/%d paths", done, total), nil
		})
	}

	cfg := mono.Config()
	mono.Logger().Info(ctx, "simulation module started",
		"paths", cfg.Simulation.Paths,
		"days", cfg.Simulation.Days,
		"blocks_per_day", cfg.Simulation.BlocksPerDay(),
		"tui", cfg.App.TUIMode)
	return nil
}
