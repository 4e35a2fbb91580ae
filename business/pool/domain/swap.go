package domain

import (
	"math"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// Direction is the side the pool takes in a swap.
type Direction string

const (
	// DirectionNone means no swap.
	DirectionNone Direction = "NONE"

	// DirectionPoolSellsX means the client buys X for Y; the price moves up.
	DirectionPoolSellsX Direction = "POOL_SELLS_X"

	// DirectionPoolBuysX means the client sells X for Y; the price moves down.
	DirectionPoolBuysX Direction = "POOL_BUYS_X"
)

// String returns a human-readable description of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionPoolSellsX:
		return "buy X for Y (pool sells X)"
	case DirectionPoolBuysX:
		return "sell X for Y (pool buys X)"
	default:
		return "none"
	}
}

// TargetSqrtPrice is the sqrt price the pool moves to so that its quote,
// after a fee rate, meets the efficient price.
func TargetSqrtPrice(efficientPrice, fee float64, dir Direction) float64 {
	factor := 1 + fee
	if dir == DirectionPoolBuysX {
		return math.Sqrt(efficientPrice * factor)
	}
	return math.Sqrt(efficientPrice / factor)
}

// SwapDeltas returns the client-side X and Y amounts of moving the pool
// from sqrtPrice to newSqrtPrice. Positive means the client receives.
func SwapDeltas(sqrtPrice, newSqrtPrice, liquidity float64) (dx, dy float64, err error) {
	if !positive(sqrtPrice) || !positive(newSqrtPrice) {
		return 0, 0, apperror.Errorf(apperror.CodeInvalidPrice,
			"sqrt_price=%v new_sqrt_price=%v", sqrtPrice, newSqrtPrice)
	}
	if !positive(liquidity) {
		return 0, 0, apperror.Errorf(apperror.CodeInvalidLiquidity,
			"liquidity=%v", liquidity)
	}

	move := newSqrtPrice - sqrtPrice
	dx = move * liquidity / (sqrtPrice * newSqrtPrice)
	dy = -move * liquidity
	return dx, dy, nil
}

// ApplyFee scales the Y leg by the fee rate. The client pays (1+fee) when
// buying X and receives (1-fee) when selling X. feeAmount is the Y retained
// by the pool.
func ApplyFee(dy, fee float64, dir Direction) (adjusted, feeAmount float64) {
	switch dir {
	case DirectionPoolSellsX:
		adjusted = dy * (1 + fee)
	case DirectionPoolBuysX:
		adjusted = dy * (1 - fee)
	default:
		return dy, 0
	}
	return adjusted, math.Abs(adjusted - dy)
}
