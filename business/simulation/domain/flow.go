package domain

import (
	"math"
	"math/big"
	"math/rand/v2"

	"github.com/ethereum/go-ethereum/common"

	poolDomain "github.com/fd1az/dynfee-amm/business/pool/domain"
)

// FlowParams shapes the order flow hitting a pool.
type FlowParams struct {
	InformedRatio  float64 // share of calls trading to the efficient price
	SubmitFeeRatio float64 // share of calls carrying a submitted fee
	BaseFee        float64 // submitted fees are drawn from [0.5, 1.5]·BaseFee
	Swappers       int     // size of the swapper address pool, 0 for anonymous flow
	NoiseSigma     float64 // log-deviation of uninformed targets from the efficient price
}

// Flow draws trade requests for one path.
type Flow struct {
	params   FlowParams
	rng      *rand.Rand
	swappers []common.Address
}

// NewFlow creates a flow. Swapper addresses are 1..Swappers so runs are
// comparable across paths.
func NewFlow(params FlowParams, rng *rand.Rand) *Flow {
	swappers := make([]common.Address, params.Swappers)
	for i := range swappers {
		swappers[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
	return &Flow{params: params, rng: rng, swappers: swappers}
}

// Next draws one trade call for the block at the given efficient price.
func (f *Flow) Next(block uint64, efficient, gas float64) poolDomain.TradeRequest {
	req := poolDomain.TradeRequest{
		EfficientPrice: efficient,
		BlockID:        block,
		Gas:            gas,
	}

	if f.rng.Float64() >= f.params.InformedRatio {
		req.Uninformed = true
		req.EfficientPrice = efficient * math.Exp(f.rng.NormFloat64()*f.params.NoiseSigma)
	}
	if f.rng.Float64() < f.params.SubmitFeeRatio {
		fee := f.params.BaseFee * (0.5 + f.rng.Float64())
		req.SubmittedFee = &fee
	}
	if len(f.swappers) > 0 {
		id := f.swappers[f.rng.IntN(len(f.swappers))]
		req.Swapper = &id
	}
	return req
}
