package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	poolDomain "github.com/fd1az/dynfee-amm/business/pool/domain"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
	"github.com/fd1az/dynfee-amm/internal/apm"
	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

// RunnerConfig holds the shape of a Monte-Carlo run.
type RunnerConfig struct {
	Path          domain.PathParams
	Flow          domain.FlowParams
	Paths         int
	SwapsPerBlock int
	Seed          uint64
	Workers       int
	FallbackGas   float64 // used when the signal feed fails
}

// Runner simulates independent price paths, one engine per path.
type Runner struct {
	cfg      RunnerConfig
	engines  EngineSource
	signals  BlockSignals
	reporter Reporter
	logger   logger.LoggerInterface
	tracer   apm.Tracer
	metrics  *runnerMetrics
	done     atomic.Int64
}

// NewRunner validates cfg and creates a Runner.
func NewRunner(cfg RunnerConfig, engines EngineSource, signals BlockSignals, reporter Reporter, log logger.LoggerInterface) (*Runner, error) {
	if err := cfg.Path.Validate(); err != nil {
		return nil, err
	}
	if cfg.Paths <= 0 || cfg.SwapsPerBlock <= 0 {
		return nil, apperror.Validation(apperror.CodeInvalidSimulation,
			fmt.Sprintf("paths=%d swaps_per_block=%d must be positive", cfg.Paths, cfg.SwapsPerBlock))
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	m, err := newRunnerMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &Runner{
		cfg:      cfg,
		engines:  engines,
		signals:  signals,
		reporter: reporter,
		logger:   log,
		tracer:   apm.NewTracer(tracerName),
		metrics:  m,
	}, nil
}

// Progress returns completed and planned path counts for the current run.
func (r *Runner) Progress() (done, total int) {
	return int(r.done.Load()), r.cfg.Paths
}

// Run simulates every path and returns the aggregate summary. Cancelling ctx
// stops all paths at the next block boundary.
func (r *Runner) Run(ctx context.Context) (*domain.Summary, error) {
	ctx, span := r.tracer.StartSpanFromContext(ctx, "simulation.run",
		trace.WithAttributes(
			attribute.Int("paths", r.cfg.Paths),
			attribute.Int("blocks", r.cfg.Path.Blocks()),
			attribute.Int("workers", r.cfg.Workers),
		),
	)
	defer span.End()

	plan := Plan{
		RunID:         uuid.NewString(),
		Paths:         r.cfg.Paths,
		BlocksPerPath: r.cfg.Path.Blocks(),
		SwapsPerBlock: r.cfg.SwapsPerBlock,
		Workers:       r.cfg.Workers,
	}
	if err := r.reporter.Start(ctx, plan); err != nil {
		span.NoticeError(err)
		return nil, fmt.Errorf("start reporter: %w", err)
	}

	span.SetAttributes(attribute.String("run_id", plan.RunID))
	r.logger.Info(ctx, "simulation started",
		"run_id", plan.RunID,
		"paths", plan.Paths,
		"blocks_per_path", plan.BlocksPerPath,
		"swaps_per_block", plan.SwapsPerBlock,
		"workers", plan.Workers,
		"seed", r.cfg.Seed)

	results := make([]domain.PathResult, r.cfg.Paths)
	r.done.Store(0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range r.cfg.Paths {
		g.Go(func() error {
			res, err := r.runPath(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			r.reporter.PathDone(res, int(r.done.Add(1)), r.cfg.Paths)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.NoticeError(err)
		r.logger.Warn(ctx, "simulation stopped", "error", err, "completed", r.done.Load())
		return nil, err
	}

	summary := domain.Summarize(results)
	r.reporter.Finish(summary)

	span.SetAttributes(
		attribute.Float64("lvr_mean", summary.LVR.Mean),
		attribute.Float64("arb_gain_mean", summary.ArbitrageGain.Mean),
	)
	span.SetStatus(codes.Ok, "completed")

	r.logger.Info(ctx, "simulation finished",
		"run_id", plan.RunID,
		"lvr_mean", summary.LVR.Mean,
		"arb_gain_mean", summary.ArbitrageGain.Mean,
		"gas_mean", summary.GasBurned.Mean,
		"executed", summary.Executed)

	return &summary, nil
}

func (r *Runner) runPath(ctx context.Context, path int) (domain.PathResult, error) {
	ctx, span := r.tracer.StartSpanFromContext(ctx, "simulation.path",
		trace.WithAttributes(attribute.Int("path", path)),
	)
	defer span.End()
	start := time.Now()

	rng := domain.NewRand(r.cfg.Seed, path)
	prices, err := domain.NewPricePath(r.cfg.Path, rng)
	if err != nil {
		span.NoticeError(err)
		return domain.PathResult{}, err
	}

	engine, err := r.engines.New()
	if err != nil {
		span.NoticeError(err)
		return domain.PathResult{}, err
	}

	flow := domain.NewFlow(r.cfg.Flow, rng)
	var acc domain.Accumulator

	for k, price := range prices {
		if err := ctx.Err(); err != nil {
			cancelled := apperror.New(apperror.CodeSimulationCancelled,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("path %d at block %d", path, k)))
			span.NoticeError(cancelled)
			return domain.PathResult{}, cancelled
		}

		gas, err := r.signals.OpenBlock(ctx, engine)
		if err != nil {
			log := r.logger.Warn
			if apperror.IsWarning(err) {
				log = r.logger.Debug
			}
			log(ctx, "block signals unavailable, using fallback gas",
				"path", path, "block", k, "error", err)
			gas = r.cfg.FallbackGas
		}

		for range r.cfg.SwapsPerBlock {
			res, err := engine.Trade(ctx, flow.Next(uint64(k), price, gas))
			if err != nil {
				span.NoticeError(err)
				return domain.PathResult{}, err
			}
			acc.Record(res.X, res.Y, res.Fee, price, gas, res.Executed, res.Reason == poolDomain.ReasonGasGated)
		}
	}
	r.metrics.blocks.Add(ctx, int64(len(prices)))

	result := acc.Result(path, r.cfg.Path.Days, engine.Price())

	r.metrics.paths.Add(ctx, 1)
	r.metrics.pathDuration.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Float64("lvr", result.LVR),
		attribute.Int("executed", result.Executed),
	)

	return result, nil
}
