// Package main is the entry point for the dynamic-fee AMM simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/dynfee-amm/business/market"
	"github.com/fd1az/dynfee-amm/business/pool"
	"github.com/fd1az/dynfee-amm/business/simulation"
	simDI "github.com/fd1az/dynfee-amm/business/simulation/di"
	"github.com/fd1az/dynfee-amm/internal/apm"
	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/health"
	"github.com/fd1az/dynfee-amm/internal/logger"
	"github.com/fd1az/dynfee-amm/internal/metrics"
	"github.com/fd1az/dynfee-amm/internal/monolith"
	"github.com/fd1az/dynfee-amm/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ammsim %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, cancel, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	// In TUI mode logs would corrupt the screen
	out := io.Writer(os.Stderr)
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting AMM simulator",
		"version", version,
		"environment", cfg.App.Environment)

	shutdownTelemetry, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	var hs *health.Server
	if cfg.Telemetry.HealthPort > 0 {
		hs = health.NewServer(cfg.Telemetry.HealthPort, version, log)
		if err := hs.Start(); err != nil {
			log.Warn(ctx, "failed to start health server", "error", err)
		} else {
			log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
		}
		defer hs.Stop(context.Background())
	}

	mono := monolith.New(cfg, log, hs)
	defer func() {
		if err := mono.Close(); err != nil {
			log.Error(ctx, "error closing modules", "error", err)
		}
	}()

	// Dependency order: market feeds pool, pool feeds simulation
	modules := []monolith.Module{
		&market.Module{},
		&pool.Module{},
		&simulation.Module{},
	}

	if err := mono.Register(modules...); err != nil {
		return err
	}

	start := func() error {
		if err := mono.Start(ctx); err != nil {
			return err
		}
		_, err := simDI.GetRunner(mono.Services()).Run(ctx)
		return err
	}

	if tuiMode {
		return runTUI(ctx, cancel, start)
	}
	return runCLI(ctx, start, log)
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (func(), error) {
	if !cfg.Telemetry.Enabled {
		return func() {}, nil
	}

	provider, err := apm.ParseProvider(cfg.Telemetry.TraceProvider)
	if err != nil {
		return nil, err
	}
	headers := metrics.ParseHeaders(cfg.Telemetry.OTLPHeaders)

	tp, err := apm.NewTraceProvider(ctx, log,
		apm.WithProvider(provider),
		apm.WithServiceName(cfg.Telemetry.ServiceName),
		apm.WithEndpoint(cfg.Telemetry.OTLPEndpoint, headers),
		apm.WithProbability(cfg.Telemetry.TraceProbability),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	mp, err := metrics.NewMeterProvider(ctx, metrics.Config{
		ServiceName:  cfg.Telemetry.ServiceName,
		Prometheus:   true,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPHeaders:  headers,
		OTLPInsecure: true,
	})
	if err != nil {
		_ = tp.Stop()
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	promCtx, stopProm := context.WithCancel(ctx)
	go func() {
		if err := metrics.ServePrometheus(promCtx, log, cfg.Telemetry.PrometheusPort); err != nil {
			log.Warn(ctx, "prometheus server stopped", "error", err)
		}
	}()
	log.Info(ctx, "telemetry initialized",
		"trace_provider", string(provider),
		"prometheus_port", cfg.Telemetry.PrometheusPort)

	return func() {
		stopProm()
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Warn(ctx, "metric provider shutdown", "error", err)
		}
		if err := tp.Stop(); err != nil {
			log.Warn(ctx, "trace provider shutdown", "error", err)
		}
	}, nil
}

func runCLI(ctx context.Context, start func() error, log logger.LoggerInterface) error {
	log.Info(ctx, "all modules registered, beginning simulation")

	if err := start(); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			log.Info(ctx, "simulation interrupted")
			return nil
		}
		return err
	}
	return nil
}

func runTUI(ctx context.Context, cancel context.CancelFunc, start func() error) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := start(); err != nil && ctx.Err() == nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// The summary stays on screen until the user quits
	_, err := p.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Cancelling stops an in-flight run at its next block
	return <-errCh
}
