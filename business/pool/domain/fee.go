package domain

import (
	"fmt"
	"math"
	"slices"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

const (
	// DefaultCutOffPercentile is the initial share of submitted fees retained.
	DefaultCutOffPercentile = 0.85

	minCutOff       = 0.5
	maxCutOff       = 1.0
	cutOffStep      = 0.05
	impactScale     = 0.01
	loyaltyDiscount = 0.9

	lowFeeBand  = 1.25
	highFeeBand = 2.0
)

// FeeState is the mutable fee configuration owned by a single engine.
type FeeState struct {
	CutOffPercentile float64
	Alpha            float64
	M                float64
	N                float64
	IntentThreshold  float64

	PriceBeforePreviousBlock float64
	PriceAfterPreviousBlock  float64
}

// NewFeeState returns a FeeState with both reference prices set to initialPrice.
func NewFeeState(alpha, m, n, intentThreshold, initialPrice float64) (FeeState, error) {
	if !(alpha >= 0 && alpha <= 1) {
		return FeeState{}, apperror.Validation(apperror.CodeInvalidFeeParams,
			fmt.Sprintf("alpha=%v must be in [0,1]", alpha))
	}
	if !(intentThreshold > 0 && intentThreshold < 1) {
		return FeeState{}, apperror.Validation(apperror.CodeInvalidFeeParams,
			fmt.Sprintf("intent_threshold=%v must be in (0,1)", intentThreshold))
	}
	if m < 0 || n < 0 || math.IsNaN(m) || math.IsNaN(n) {
		return FeeState{}, apperror.Validation(apperror.CodeInvalidFeeParams,
			fmt.Sprintf("m=%v n=%v must be non-negative", m, n))
	}
	if !positive(initialPrice) {
		return FeeState{}, apperror.Validation(apperror.CodeInvalidPrice,
			fmt.Sprintf("initial_price=%v", initialPrice))
	}

	return FeeState{
		CutOffPercentile:         DefaultCutOffPercentile,
		Alpha:                    alpha,
		M:                        m,
		N:                        n,
		IntentThreshold:          intentThreshold,
		PriceBeforePreviousBlock: initialPrice,
		PriceAfterPreviousBlock:  initialPrice,
	}, nil
}

// EndogenousFee prices the impact of the previous block.
func EndogenousFee(blockID uint64, priceBefore, priceAfter, baseFee float64) float64 {
	if blockID == 0 || !positive(priceBefore) {
		return baseFee
	}
	impact := math.Abs(priceAfter-priceBefore) / priceBefore
	return baseFee + impact*impactScale
}

// TrimFees returns the lowest floor(len·cutOff) fees in ascending order.
// The input is not modified.
func TrimFees(submitted []float64, cutOff float64) []float64 {
	sorted := slices.Clone(submitted)
	slices.Sort(sorted)

	keep := int(math.Floor(float64(len(sorted)) * cutOff))
	keep = max(0, min(keep, len(sorted)))
	return sorted[:keep]
}

// FeeStats returns the population mean and standard deviation. The
// simulation summary uses it for per-path metrics as well.
func FeeStats(fees []float64) (mean, std float64) {
	if len(fees) == 0 {
		return 0, 0
	}

	var sum float64
	for _, f := range fees {
		sum += f
	}
	mean = sum / float64(len(fees))

	var sq float64
	for _, f := range fees {
		d := f - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(fees)))
}

// ExogenousFee derives a fee from the distribution of fees submitted in the
// current block. A returning swapper pays mean + m·σ, anyone else n·σ.
func ExogenousFee(submitted []float64, returning bool, m, n, cutOff, baseFee float64) float64 {
	if len(submitted) < 2 {
		return baseFee
	}

	retained := TrimFees(submitted, cutOff)
	if len(retained) == 0 {
		return baseFee
	}

	mean, std := FeeStats(retained)
	if returning {
		return mean + m*std
	}
	return n * std
}

// AdaptCutOff moves the cut-off percentile one step based on where the fee
// sits relative to the base fee.
func AdaptCutOff(cutOff, fee, baseFee float64) float64 {
	switch {
	case fee <= baseFee*lowFeeBand:
		return min(maxCutOff, cutOff+cutOffStep)
	case fee > baseFee*highFeeBand:
		return max(minCutOff, cutOff-cutOffStep)
	default:
		return cutOff
	}
}

// DirectionalFee scales a fee by order-book pressure in [-1,1]. Positive
// pressure means ask-side dominance: buying X gets dearer, selling X cheaper.
// A weight of 0 returns fee unchanged.
func DirectionalFee(fee float64, dir Direction, pressure, weight float64) float64 {
	if weight == 0 || math.IsNaN(pressure) {
		return fee
	}
	pressure = max(-1, min(1, pressure))

	var scale float64
	switch dir {
	case DirectionPoolSellsX:
		scale = 1 + weight*pressure
	case DirectionPoolBuysX:
		scale = 1 - weight*pressure
	default:
		return fee
	}
	return fee * max(0, scale)
}

// CombinedInput carries the per-call inputs of the blended fee.
type CombinedInput struct {
	BlockID          uint64
	Submitted        []float64
	Returning        bool
	FirstTransaction bool
	Surcharge        SurchargeContext

	// HasSwapper gates the loyalty discount; IntentRate is ignored without it.
	HasSwapper bool
	IntentRate float64
}

// CombinedFee records every stage of the blended fee.
type CombinedFee struct {
	Endogenous float64
	Exogenous  float64
	Blended    float64
	Floored    float64
	Surcharged float64
	Final      float64

	SurchargeApplied bool
	LoyaltyApplied   bool
	CutOffBefore     float64
	CutOffAfter      float64
}

// FeeModel computes the blended fee and owns the adaptive FeeState.
type FeeModel struct {
	baseFee   float64
	state     FeeState
	surcharge SurchargePolicy
}

// NewFeeModel creates a fee model. A nil policy disables the surcharge.
func NewFeeModel(baseFee float64, state FeeState, surcharge SurchargePolicy) *FeeModel {
	if surcharge == nil {
		surcharge = NoSurcharge{}
	}
	return &FeeModel{baseFee: baseFee, state: state, surcharge: surcharge}
}

// BaseFee returns the pool base fee.
func (f *FeeModel) BaseFee() float64 { return f.baseFee }

// State returns a copy of the current fee state.
func (f *FeeModel) State() FeeState { return f.state }

// SetReferencePrices updates the prices of the previous block.
func (f *FeeModel) SetReferencePrices(before, after float64) {
	f.state.PriceBeforePreviousBlock = before
	f.state.PriceAfterPreviousBlock = after
}

// Combined computes the blended fee for one call and adapts the cut-off
// percentile as a side effect.
func (f *FeeModel) Combined(in CombinedInput) CombinedFee {
	s := &f.state
	out := CombinedFee{CutOffBefore: s.CutOffPercentile}

	out.Endogenous = EndogenousFee(in.BlockID, s.PriceBeforePreviousBlock, s.PriceAfterPreviousBlock, f.baseFee)
	out.Exogenous = ExogenousFee(in.Submitted, in.Returning, s.M, s.N, s.CutOffPercentile, f.baseFee)
	out.Blended = s.Alpha*out.Endogenous + (1-s.Alpha)*out.Exogenous
	out.Floored = max(out.Blended, out.Endogenous)

	s.CutOffPercentile = AdaptCutOff(s.CutOffPercentile, out.Floored, f.baseFee)
	out.CutOffAfter = s.CutOffPercentile

	fee := out.Floored
	if in.FirstTransaction {
		fee, out.SurchargeApplied = f.surcharge.Apply(fee, in.Surcharge)
	}
	out.Surcharged = fee

	if in.HasSwapper && in.IntentRate >= s.IntentThreshold {
		fee *= loyaltyDiscount
		out.LoyaltyApplied = true
	}
	out.Final = fee

	return out
}
