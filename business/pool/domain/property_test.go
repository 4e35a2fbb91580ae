package domain

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_ReserveIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Float64Range(1e-3, 1e6).Draw(t, "price")
		target := rapid.Float64Range(1e-3, 1e6).Draw(t, "target")
		liquidity := rapid.Float64Range(1, 1e9).Draw(t, "liquidity")

		s, next := math.Sqrt(price), math.Sqrt(target)
		dx, dy, err := SwapDeltas(s, next, liquidity)
		if err != nil {
			t.Fatalf("SwapDeltas: %v", err)
		}

		x, y := liquidity/s-dx, liquidity*s-dy
		want := liquidity * liquidity
		if rel := math.Abs(x*y-want) / want; rel > 1e-9 {
			t.Fatalf("x·y = %v, want %v (rel err %v)", x*y, want, rel)
		}
	})
}

func TestProperty_FeeFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alpha := rapid.Float64Range(0, 1).Draw(t, "alpha")
		before := rapid.Float64Range(100, 5000).Draw(t, "before")
		after := rapid.Float64Range(100, 5000).Draw(t, "after")
		fees := rapid.SliceOfN(rapid.Float64Range(0, 0.05), 0, 20).Draw(t, "fees")
		returning := rapid.Bool().Draw(t, "returning")
		block := rapid.Uint64Range(0, 1000).Draw(t, "block")

		state, err := NewFeeState(alpha, 1, 2, 0.5, before)
		if err != nil {
			t.Fatalf("NewFeeState: %v", err)
		}
		fm := NewFeeModel(baseFee, state, nil)
		fm.SetReferencePrices(before, after)

		got := fm.Combined(CombinedInput{BlockID: block, Submitted: fees, Returning: returning})
		if got.Floored < got.Endogenous {
			t.Fatalf("floored %v below endogenous %v", got.Floored, got.Endogenous)
		}
		if got.Final != got.Floored {
			t.Fatalf("final %v differs from floored %v without surcharge or loyalty", got.Final, got.Floored)
		}
	})
}

func TestProperty_CutOffBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state, err := NewFeeState(0.5, 1, 2, 0.5, 1200)
		if err != nil {
			t.Fatalf("NewFeeState: %v", err)
		}
		fm := NewFeeModel(baseFee, state, nil)

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := range steps {
			fm.SetReferencePrices(1200, rapid.Float64Range(600, 2400).Draw(t, "after"))
			fees := rapid.SliceOfN(rapid.Float64Range(0, 0.02), 0, 10).Draw(t, "fees")
			fm.Combined(CombinedInput{BlockID: uint64(i + 1), Submitted: fees})

			c := fm.State().CutOffPercentile
			if c < 0.5-1e-12 || c > 1.0+1e-12 {
				t.Fatalf("cut-off %v escaped [0.5, 1.0] at step %d", c, i)
			}
		}
	})
}

func TestProperty_TrimKeepsLowest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fees := rapid.SliceOfN(rapid.Float64Range(0, 1), 0, 50).Draw(t, "fees")
		cutOff := rapid.Float64Range(0.5, 1).Draw(t, "cutOff")

		kept := TrimFees(fees, cutOff)
		if want := int(math.Floor(float64(len(fees)) * cutOff)); len(kept) != want {
			t.Fatalf("kept %d fees, want %d", len(kept), want)
		}
		for i := 1; i < len(kept); i++ {
			if kept[i] < kept[i-1] {
				t.Fatalf("retained fees not ascending: %v", kept)
			}
		}
	})
}
