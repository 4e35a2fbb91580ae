package domain

// Accumulator books the outcome of every trade call on one path.
type Accumulator struct {
	lvr      float64
	arbGain  float64
	gas      float64
	fees     float64
	calls    int
	executed int
	gated    int
}

// Record books one trade call of (x, y) at the efficient price. Calls that
// moved the pool also pay gas.
func (a *Accumulator) Record(x, y, fee, price, gas float64, executed, gasGated bool) {
	a.calls++
	a.lvr += -x*price - y

	if gasGated {
		a.gated++
	}
	if x == 0 {
		return
	}
	a.arbGain += x*price + y - gas
	a.gas += gas
	a.fees += fee
	if executed {
		a.executed++
	}
}

// LVR is the loss versus rebalancing of the pool.
func (a *Accumulator) LVR() float64 { return a.lvr }

// ArbitrageGain is what traders made net of gas.
func (a *Accumulator) ArbitrageGain() float64 { return a.arbGain }

// GasBurned is the total gas paid by executed trades.
func (a *Accumulator) GasBurned() float64 { return a.gas }

// FeesCollected is the total fee charged on the Y leg.
func (a *Accumulator) FeesCollected() float64 { return a.fees }

// Result scales the totals to per-day figures.
func (a *Accumulator) Result(path, days int, finalPrice float64) PathResult {
	d := float64(max(1, days))
	return PathResult{
		Path:          path,
		LVR:           a.lvr / d,
		ArbitrageGain: a.arbGain / d,
		GasBurned:     a.gas / d,
		FeesCollected: a.fees / d,
		Calls:         a.calls,
		Executed:      a.executed,
		GasGated:      a.gated,
		FinalPrice:    finalPrice,
	}
}

// PathResult holds per-day averages for one simulated path.
type PathResult struct {
	Path          int
	LVR           float64
	ArbitrageGain float64
	GasBurned     float64
	FeesCollected float64
	Calls         int
	Executed      int
	GasGated      int
	FinalPrice    float64
}
