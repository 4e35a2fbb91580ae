package domain

import (
	"fmt"
	"strings"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// Surcharge policy names accepted by ParseSurchargePolicy.
const (
	SurchargeConditional = "conditional"
	SurchargeFlat        = "flat"
	SurchargeNone        = "none"
)

// SurchargeContext is what a surcharge policy may inspect.
type SurchargeContext struct {
	ReserveX float64
	ReserveY float64

	// Slippage is |e - p| / p for the price the trade is aimed at.
	Slippage float64
}

// SurchargePolicy adjusts the fee of the first trade in a block.
type SurchargePolicy interface {
	Apply(fee float64, ctx SurchargeContext) (float64, bool)
}

// NoSurcharge leaves the fee untouched.
type NoSurcharge struct{}

func (NoSurcharge) Apply(fee float64, _ SurchargeContext) (float64, bool) { return fee, false }

// FlatSurcharge always multiplies by Factor.
type FlatSurcharge struct {
	Factor float64
}

func (s FlatSurcharge) Apply(fee float64, _ SurchargeContext) (float64, bool) {
	return fee * s.Factor, true
}

// ConditionalSurcharge multiplies by Factor only when a virtual reserve is
// below LiquidityThreshold and the aimed slippage exceeds SlippageThreshold.
type ConditionalSurcharge struct {
	Factor             float64
	LiquidityThreshold float64
	SlippageThreshold  float64
}

// DefaultConditionalSurcharge returns the 2x policy.
func DefaultConditionalSurcharge() ConditionalSurcharge {
	return ConditionalSurcharge{
		Factor:             2,
		LiquidityThreshold: 100,
		SlippageThreshold:  0.01,
	}
}

func (s ConditionalSurcharge) Apply(fee float64, ctx SurchargeContext) (float64, bool) {
	lowLiquidity := ctx.ReserveX < s.LiquidityThreshold || ctx.ReserveY < s.LiquidityThreshold
	if lowLiquidity && ctx.Slippage > s.SlippageThreshold {
		return fee * s.Factor, true
	}
	return fee, false
}

// ParseSurchargePolicy builds a policy by name.
func ParseSurchargePolicy(name string, factor, liquidityThreshold, slippageThreshold float64) (SurchargePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SurchargeConditional:
		return ConditionalSurcharge{
			Factor:             factor,
			LiquidityThreshold: liquidityThreshold,
			SlippageThreshold:  slippageThreshold,
		}, nil
	case SurchargeFlat:
		return FlatSurcharge{Factor: factor}, nil
	case SurchargeNone:
		return NoSurcharge{}, nil
	default:
		return nil, apperror.Validation(apperror.CodeInvalidFeeParams,
			fmt.Sprintf("unknown surcharge policy %q", name))
	}
}
