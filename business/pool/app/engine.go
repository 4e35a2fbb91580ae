package app

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/dynfee-amm/business/pool/domain"
	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

// DefaultSubmittedFeeMultiple bounds accepted submitted fees to base·3.
const DefaultSubmittedFeeMultiple = 3.0

// EngineConfig holds the parameters of one pool engine.
type EngineConfig struct {
	InitialPrice    float64
	Liquidity       float64
	BaseFee         float64
	Alpha           float64
	M               float64
	N               float64
	IntentThreshold float64

	// SubmittedFeeMultiple caps accepted submitted fees at BaseFee times this.
	SubmittedFeeMultiple float64

	// PressureWeight scales the directional adjustment. Zero disables it.
	PressureWeight float64

	Surcharge domain.SurchargePolicy
	Retention domain.RetentionPolicy
}

// Engine is a single-pool dynamic-fee AMM. It is not safe for concurrent
// use; run one engine per goroutine.
type Engine struct {
	pool   domain.Pool
	fees   *domain.FeeModel
	ledger *domain.BlockLedger

	blockOpenPrice float64
	pressure       float64
	pressureWeight float64
	maxSubmitted   float64

	logger  logger.LoggerInterface
	metrics *engineMetrics
}

// NewEngine validates cfg and creates an engine at the initial price.
func NewEngine(cfg EngineConfig, log logger.LoggerInterface) (*Engine, error) {
	pool, err := domain.NewPool(cfg.InitialPrice, cfg.Liquidity, cfg.BaseFee)
	if err != nil {
		return nil, err
	}

	state, err := domain.NewFeeState(cfg.Alpha, cfg.M, cfg.N, cfg.IntentThreshold, cfg.InitialPrice)
	if err != nil {
		return nil, err
	}

	multiple := cfg.SubmittedFeeMultiple
	if multiple <= 0 {
		multiple = DefaultSubmittedFeeMultiple
	}

	surcharge := cfg.Surcharge
	if surcharge == nil {
		surcharge = domain.DefaultConditionalSurcharge()
	}

	if log == nil {
		log = logger.NewNop()
	}

	m, err := newEngineMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &Engine{
		pool:           pool,
		fees:           domain.NewFeeModel(cfg.BaseFee, state, surcharge),
		ledger:         domain.NewBlockLedger(cfg.Retention),
		blockOpenPrice: pool.Price(),
		pressureWeight: cfg.PressureWeight,
		maxSubmitted:   cfg.BaseFee * multiple,
		logger:         log,
		metrics:        m,
	}, nil
}

// Trade serves one trade call against the efficient price. Invalid input is
// rejected before any state changes. Block bookkeeping is committed even
// when the trade itself is a no-op.
func (e *Engine) Trade(ctx context.Context, req domain.TradeRequest) (domain.TradeResult, error) {
	if err := req.Validate(); err != nil {
		return domain.TradeResult{}, err
	}

	var diags []domain.Diagnostic
	if d, ok := e.advanceBlock(ctx, req.BlockID); ok {
		diags = append(diags, d)
	}
	if d, ok := e.recordSubmission(ctx, req); ok {
		diags = append(diags, d)
	}

	price := e.pool.Price()
	target := req.EfficientPrice
	reserveX, reserveY := e.pool.Reserves()

	in := domain.CombinedInput{
		BlockID:          req.BlockID,
		Submitted:        e.ledger.SubmittedFees(),
		FirstTransaction: e.ledger.ConsumeFirstTransaction(),
		Surcharge: domain.SurchargeContext{
			ReserveX: reserveX,
			ReserveY: reserveY,
			Slippage: math.Abs(target-price) / price,
		},
	}
	if req.Swapper != nil {
		in.Returning = e.ledger.Returning(*req.Swapper)
		in.HasSwapper = true
		in.IntentRate = e.ledger.IntentRate(*req.Swapper)
	}

	fee := e.fees.Combined(in)
	e.metrics.feeRate.Record(ctx, fee.Final)
	e.metrics.cutOff.Record(ctx, fee.CutOffAfter)

	result := domain.TradeResult{
		Direction:   domain.DirectionNone,
		Reason:      domain.ReasonNoArbitrage,
		FeeRate:     fee.Final,
		Diagnostics: diags,
	}

	dir, rate, next := e.route(req, price, fee.Final)
	if dir == domain.DirectionNone {
		e.recordOutcome(ctx, result.Reason)
		return result, nil
	}
	result.Direction = dir
	result.FeeRate = rate

	dx, dy, err := domain.SwapDeltas(e.pool.SqrtPrice, next, e.pool.Liquidity)
	if err != nil {
		return domain.TradeResult{}, err
	}
	y, feeAmount := domain.ApplyFee(dy, rate, dir)

	// Uninformed flow does not trade for profit, so only arbitrage is gated.
	if !req.Uninformed && req.Gas > dx*target+y {
		result.Reason = domain.ReasonGasGated
		e.recordOutcome(ctx, result.Reason)
		return result, nil
	}

	e.pool.SqrtPrice = next

	result.X = dx
	result.Y = y
	result.Fee = feeAmount
	result.Executed = true
	result.Reason = domain.ReasonExecuted
	e.recordOutcome(ctx, result.Reason)

	e.logger.Debug(ctx, "trade executed",
		"block", req.BlockID,
		"direction", string(dir),
		"fee_rate", rate,
		"x", dx,
		"y", y,
		"price", e.pool.Price(),
	)

	return result, nil
}

// route picks the side of the trade, the pressure-adjusted fee for that side
// and the sqrt price to move to. The bid/ask is quoted with the adjusted fee.
// Informed trades inside it are no-ops; uninformed trades inside it move to
// the efficient price itself.
func (e *Engine) route(req domain.TradeRequest, price, fee float64) (domain.Direction, float64, float64) {
	target := req.EfficientPrice

	var dir domain.Direction
	switch {
	case target > price:
		dir = domain.DirectionPoolSellsX
	case target < price:
		dir = domain.DirectionPoolBuysX
	default:
		return domain.DirectionNone, fee, 0
	}

	rate := domain.DirectionalFee(fee, dir, e.pressure, e.pressureWeight)
	bid, ask := e.pool.Quote(rate)
	if (dir == domain.DirectionPoolSellsX && target > ask) ||
		(dir == domain.DirectionPoolBuysX && target < bid) {
		return dir, rate, domain.TargetSqrtPrice(target, rate, dir)
	}
	if req.Uninformed {
		return dir, rate, math.Sqrt(target)
	}
	return domain.DirectionNone, fee, 0
}

func (e *Engine) advanceBlock(ctx context.Context, blockID uint64) (domain.Diagnostic, bool) {
	tr, changed := e.ledger.Observe(blockID)
	if !changed {
		return domain.Diagnostic{}, false
	}

	price := e.pool.Price()
	if tr.HadPrevious {
		e.fees.SetReferencePrices(e.blockOpenPrice, price)
	}
	e.blockOpenPrice = price
	e.metrics.blocksClosed.Add(ctx, 1)

	if !tr.Regressed {
		return domain.Diagnostic{}, false
	}

	appErr := apperror.Warning(apperror.CodeBlockIDRegressed,
		fmt.Sprintf("block %d after %d", tr.Current, tr.Previous))
	e.logger.Warn(ctx, "block id regressed", appErr.LogArgs()...)
	return domain.NewDiagnostic(appErr), true
}

func (e *Engine) recordSubmission(ctx context.Context, req domain.TradeRequest) (domain.Diagnostic, bool) {
	if req.Swapper != nil {
		e.ledger.RecordSwapper(*req.Swapper)
	}
	if req.SubmittedFee == nil {
		return domain.Diagnostic{}, false
	}

	fee := *req.SubmittedFee
	if math.IsNaN(fee) || math.IsInf(fee, 0) {
		appErr := apperror.Warning(apperror.CodeSubmittedFeeNotFinite,
			fmt.Sprintf("submitted_fee=%v", fee))
		e.logger.Warn(ctx, "submitted fee dropped", appErr.LogArgs()...)
		e.metrics.feeWarnings.Add(ctx, 1)
		return domain.NewDiagnostic(appErr), true
	}

	e.ledger.RecordFee(fee)

	if fee >= 0 && fee <= e.maxSubmitted {
		return domain.Diagnostic{}, false
	}

	appErr := apperror.Warning(apperror.CodeSubmittedFeeOutOfRange,
		fmt.Sprintf("submitted_fee=%v accepted=[0,%v]", fee, e.maxSubmitted))
	e.logger.Warn(ctx, "submitted fee out of range", appErr.LogArgs()...)
	e.metrics.feeWarnings.Add(ctx, 1)
	return domain.NewDiagnostic(appErr), true
}

func (e *Engine) recordOutcome(ctx context.Context, reason domain.Reason) {
	e.metrics.trades.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(reason))))
}

// InjectPressure sets the order-book pressure for the current block. A
// provider error neutralises the pressure.
func (e *Engine) InjectPressure(ctx context.Context, value float64, err error) {
	if err != nil {
		appErr := apperror.New(apperror.CodeSignalProviderFailure,
			apperror.WithCause(err),
			apperror.WithContext("pressure neutralised"),
			apperror.WithSeverity(apperror.SeverityWarning))
		e.logger.Warn(ctx, "pressure signal unavailable", appErr.LogArgs()...)
		e.pressure = 0
		return
	}
	if math.IsNaN(value) {
		e.pressure = 0
		return
	}
	e.pressure = max(-1, min(1, value))
}

// SqrtPrice returns the current sqrt price.
func (e *Engine) SqrtPrice() float64 { return e.pool.SqrtPrice }

// Price returns the current mid price.
func (e *Engine) Price() float64 { return e.pool.Price() }

// Pool returns a copy of the pool state.
func (e *Engine) Pool() domain.Pool { return e.pool }

// FeeState returns a copy of the fee state.
func (e *Engine) FeeState() domain.FeeState { return e.fees.State() }

// Ledger returns a read-only view of the block ledger.
func (e *Engine) Ledger() domain.LedgerView { return e.ledger }

// Pressure returns the pressure injected for the current block.
func (e *Engine) Pressure() float64 { return e.pressure }
