package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

func params() PathParams {
	return PathParams{InitialPrice: 1200, DailySigma: 0.05, BlocksPerDay: 6545, Days: 1}
}

func TestPathParams_BlockSigma(t *testing.T) {
	require.InDelta(t, 0.05/math.Sqrt(6545), params().BlockSigma(), 1e-15)
	require.Equal(t, 6545, params().Blocks())
}

func TestNewPricePath_Reproducible(t *testing.T) {
	a, err := NewPricePath(params(), NewRand(7, 0))
	require.NoError(t, err)
	b, err := NewPricePath(params(), NewRand(7, 0))
	require.NoError(t, err)
	c, err := NewPricePath(params(), NewRand(7, 1))
	require.NoError(t, err)

	require.Len(t, a, 6545)
	require.Equal(t, 1200.0, a[0])
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	for _, p := range a {
		require.Greater(t, p, 0.0)
	}
}

func TestNewPricePath_ZeroSigmaIsFlat(t *testing.T) {
	p := params()
	p.DailySigma = 0
	path, err := NewPricePath(p, NewRand(1, 0))
	require.NoError(t, err)
	for _, v := range path {
		require.Equal(t, 1200.0, v)
	}
}

func TestNewPricePath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*PathParams)
	}{
		{name: "zero_price", mod: func(p *PathParams) { p.InitialPrice = 0 }},
		{name: "negative_sigma", mod: func(p *PathParams) { p.DailySigma = -1 }},
		{name: "no_days", mod: func(p *PathParams) { p.Days = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params()
			tt.mod(&p)
			_, err := NewPricePath(p, NewRand(1, 0))
			require.Equal(t, apperror.CodeInvalidSimulation, apperror.GetCode(err))
		})
	}
}

func TestAccumulator(t *testing.T) {
	var a Accumulator

	// arbitrageur buys 1 X for 1205 Y while the efficient price is 1210
	a.Record(1, -1205, 3.6, 1210, 2, true, false)
	// no-op call
	a.Record(0, 0, 0, 1210, 2, false, false)
	// gated call books nothing but the count
	a.Record(0, 0, 0, 1210, 50, false, true)

	require.InDelta(t, -5, a.LVR(), 1e-9)
	require.InDelta(t, 3, a.ArbitrageGain(), 1e-9)
	require.InDelta(t, 2, a.GasBurned(), 1e-9)

	r := a.Result(3, 2, 1210)
	require.Equal(t, 3, r.Path)
	require.InDelta(t, 1.5, r.ArbitrageGain, 1e-9)
	require.Equal(t, 3, r.Calls)
	require.Equal(t, 1, r.Executed)
	require.Equal(t, 1, r.GasGated)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]PathResult{
		{Path: 1, LVR: 3, Calls: 10, Executed: 4},
		{Path: 0, LVR: 1, Calls: 10, Executed: 2},
	})

	require.Equal(t, 2, s.Paths)
	require.Equal(t, 0, s.Results[0].Path)
	require.InDelta(t, 2, s.LVR.Mean, 1e-12)
	require.InDelta(t, 1, s.LVR.StdDev, 1e-12)
	require.Equal(t, 20, s.Calls)
	require.Equal(t, 6, s.Executed)

	require.Equal(t, Stat{}, Summarize(nil).LVR)
}
