// Package domain contains the core domain types for the pool context: the
// fee model, sqrt-price swap math, and the per-block ledger.
package domain

import (
	"math"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// Sentinel errors, matched with errors.Is by code.
var (
	ErrInvalidPrice     = apperror.New(apperror.CodeInvalidPrice)
	ErrInvalidLiquidity = apperror.New(apperror.CodeInvalidLiquidity)
	ErrInvalidGas       = apperror.New(apperror.CodeInvalidGas)
	ErrInvalidFeeParams = apperror.New(apperror.CodeInvalidFeeParams)
)

// Pool is a single X/Y pool with constant liquidity L, so x·y = L².
type Pool struct {
	SqrtPrice float64
	Liquidity float64
	BaseFee   float64
}

// NewPool creates a pool quoted at initialPrice (Y per X).
func NewPool(initialPrice, liquidity, baseFee float64) (Pool, error) {
	if !positive(initialPrice) {
		return Pool{}, apperror.Errorf(apperror.CodeInvalidPrice,
			"initial_price=%v", initialPrice)
	}
	if !positive(liquidity) {
		return Pool{}, apperror.Errorf(apperror.CodeInvalidLiquidity,
			"liquidity=%v", liquidity)
	}
	if !(baseFee > 0 && baseFee < 1) {
		return Pool{}, apperror.Errorf(apperror.CodeInvalidFeeParams,
			"base_fee=%v must be in (0,1)", baseFee)
	}

	return Pool{
		SqrtPrice: math.Sqrt(initialPrice),
		Liquidity: liquidity,
		BaseFee:   baseFee,
	}, nil
}

// Price returns the X-in-Y mid price.
func (p Pool) Price() float64 {
	return p.SqrtPrice * p.SqrtPrice
}

// Reserves returns the virtual reserves implied by L and the sqrt price.
func (p Pool) Reserves() (x, y float64) {
	return p.Liquidity / p.SqrtPrice, p.Liquidity * p.SqrtPrice
}

// Quote returns the bid and ask around the mid price for a fee rate.
func (p Pool) Quote(fee float64) (bid, ask float64) {
	price := p.Price()
	return price * (1 - fee), price * (1 + fee)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
