package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioLiquidity = 166666.67

func TestNewPool(t *testing.T) {
	p, err := NewPool(1200, scenarioLiquidity, baseFee)
	require.NoError(t, err)
	require.InDelta(t, 1200, p.Price(), 1e-9)

	x, y := p.Reserves()
	require.InDelta(t, scenarioLiquidity*scenarioLiquidity, x*y, 1e-9*scenarioLiquidity*scenarioLiquidity)

	bid, ask := p.Quote(baseFee)
	require.InDelta(t, 1196.4, bid, 1e-9)
	require.InDelta(t, 1203.6, ask, 1e-9)

	_, err = NewPool(0, scenarioLiquidity, baseFee)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewPool(1200, -1, baseFee)
	require.ErrorIs(t, err, ErrInvalidLiquidity)

	_, err = NewPool(1200, scenarioLiquidity, 1)
	require.ErrorIs(t, err, ErrInvalidFeeParams)
}

func TestSwapDeltas(t *testing.T) {
	s := math.Sqrt(1200.0)

	t.Run("price_up_client_receives_x", func(t *testing.T) {
		target := TargetSqrtPrice(1260, baseFee, DirectionPoolSellsX)
		require.Greater(t, target, s)

		dx, dy, err := SwapDeltas(s, target, scenarioLiquidity)
		require.NoError(t, err)
		require.Positive(t, dx)
		require.Negative(t, dy)
	})

	t.Run("price_down_client_receives_y", func(t *testing.T) {
		target := TargetSqrtPrice(1140, baseFee, DirectionPoolBuysX)
		require.Less(t, target, s)

		dx, dy, err := SwapDeltas(s, target, scenarioLiquidity)
		require.NoError(t, err)
		require.Negative(t, dx)
		require.Positive(t, dy)
	})

	t.Run("no_move", func(t *testing.T) {
		dx, dy, err := SwapDeltas(s, s, scenarioLiquidity)
		require.NoError(t, err)
		require.Zero(t, dx)
		require.Zero(t, dy)
	})

	t.Run("invalid_inputs", func(t *testing.T) {
		_, _, err := SwapDeltas(0, s, scenarioLiquidity)
		require.ErrorIs(t, err, ErrInvalidPrice)

		_, _, err = SwapDeltas(s, math.NaN(), scenarioLiquidity)
		require.ErrorIs(t, err, ErrInvalidPrice)

		_, _, err = SwapDeltas(s, s, 0)
		require.ErrorIs(t, err, ErrInvalidLiquidity)
	})
}

func TestApplyFee(t *testing.T) {
	tests := []struct {
		name         string
		dy           float64
		dir          Direction
		wantAdjusted float64
		wantFee      float64
	}{
		{name: "client_pays_y", dy: -1000, dir: DirectionPoolSellsX, wantAdjusted: -1003, wantFee: 3},
		{name: "client_receives_y", dy: 1000, dir: DirectionPoolBuysX, wantAdjusted: 997, wantFee: 3},
		{name: "no_direction", dy: 1000, dir: DirectionNone, wantAdjusted: 1000, wantFee: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjusted, fee := ApplyFee(tt.dy, baseFee, tt.dir)
			require.InDelta(t, tt.wantAdjusted, adjusted, 1e-9)
			require.InDelta(t, tt.wantFee, fee, 1e-9)
		})
	}
}

func TestDirection_String(t *testing.T) {
	require.Equal(t, "none", DirectionNone.String())
	require.Contains(t, DirectionPoolSellsX.String(), "pool sells X")
	require.Contains(t, DirectionPoolBuysX.String(), "pool buys X")
}
