package domain

import (
	"fmt"
	"math"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// Reason explains the outcome of a trade call.
type Reason string

const (
	ReasonExecuted    Reason = "executed"
	ReasonNoArbitrage Reason = "no_arbitrage"
	ReasonGasGated    Reason = "gas_gated"
)

// TradeRequest is one call into the engine.
type TradeRequest struct {
	EfficientPrice float64
	SubmittedFee   *float64
	Swapper        *SwapperID
	BlockID        uint64
	Gas            float64

	// Uninformed trades skip the inside-spread check.
	Uninformed bool
}

// Validate checks the request before anything is mutated.
func (r TradeRequest) Validate() error {
	if !positive(r.EfficientPrice) {
		return apperror.Validation(apperror.CodeInvalidPrice,
			fmt.Sprintf("efficient_price=%v", r.EfficientPrice))
	}
	if r.Gas < 0 || math.IsNaN(r.Gas) || math.IsInf(r.Gas, 0) {
		return apperror.Validation(apperror.CodeInvalidGas,
			fmt.Sprintf("gas=%v", r.Gas))
	}
	return nil
}

// Diagnostic is a non-fatal condition noticed while serving a trade.
type Diagnostic struct {
	Code    apperror.Code
	Message string
}

// NewDiagnostic converts an application error into a diagnostic.
func NewDiagnostic(err *apperror.AppError) Diagnostic {
	return Diagnostic{Code: err.Code, Message: err.Error()}
}

// TradeResult is the client-side outcome of a trade. X and Y are positive
// when the client receives. Fee is the Y amount retained by the pool.
type TradeResult struct {
	X   float64
	Y   float64
	Fee float64

	Direction   Direction
	Executed    bool
	Reason      Reason
	FeeRate     float64
	Diagnostics []Diagnostic
}

// Triple returns (x, y, fee).
func (r TradeResult) Triple() (x, y, fee float64) {
	return r.X, r.Y, r.Fee
}

// Value is the client's mark-to-market gain at price, before gas.
func (r TradeResult) Value(price float64) float64 {
	return r.X*price + r.Y
}

// IsZero reports whether no tokens moved.
func (r TradeResult) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.Fee == 0
}
