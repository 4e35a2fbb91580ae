// Package domain contains the Monte-Carlo price paths and the per-path
// accounting of the simulation context.
package domain

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// PathParams describes one geometric Brownian motion price path.
type PathParams struct {
	InitialPrice float64
	DailySigma   float64
	BlocksPerDay int
	Days         int
}

// Blocks returns the total number of blocks on the path.
func (p PathParams) Blocks() int { return p.Days * p.BlocksPerDay }

// BlockSigma is the per-block volatility daily/sqrt(blocksPerDay).
func (p PathParams) BlockSigma() float64 {
	return p.DailySigma / math.Sqrt(float64(p.BlocksPerDay))
}

// Validate checks the path parameters.
func (p PathParams) Validate() error {
	switch {
	case !(p.InitialPrice > 0) || math.IsInf(p.InitialPrice, 0):
		return apperror.Validation(apperror.CodeInvalidSimulation,
			fmt.Sprintf("initial_price=%v must be positive", p.InitialPrice))
	case p.DailySigma < 0 || math.IsNaN(p.DailySigma):
		return apperror.Validation(apperror.CodeInvalidSimulation,
			fmt.Sprintf("daily_sigma=%v must be non-negative", p.DailySigma))
	case p.BlocksPerDay <= 0 || p.Days <= 0:
		return apperror.Validation(apperror.CodeInvalidSimulation,
			fmt.Sprintf("blocks_per_day=%d days=%d must be positive", p.BlocksPerDay, p.Days))
	}
	return nil
}

// NewRand returns the generator for one path. The same seed and path index
// always yield the same stream.
func NewRand(seed uint64, path int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(path)))
}

// NewPricePath draws a martingale GBM path normalised so that the first block
// trades at InitialPrice.
func NewPricePath(p PathParams, rng *rand.Rand) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Blocks()
	sigma := p.BlockSigma()
	drift := sigma * sigma / 2

	prices := make([]float64, n)
	z := 0.0
	for k := range n {
		z += rng.NormFloat64() * sigma
		prices[k] = z - float64(k)*drift
	}

	first := prices[0]
	for k := range prices {
		prices[k] = p.InitialPrice * math.Exp(prices[k]-first)
	}
	return prices, nil
}
