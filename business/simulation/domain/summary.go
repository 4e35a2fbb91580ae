package domain

import (
	"slices"

	poolDomain "github.com/fd1az/dynfee-amm/business/pool/domain"
)

// Stat is the mean and population standard deviation of a metric.
type Stat struct {
	Mean   float64
	StdDev float64
}

// Summary aggregates the results of all paths.
type Summary struct {
	Paths         int
	LVR           Stat
	ArbitrageGain Stat
	GasBurned     Stat
	FeesCollected Stat
	Calls         int
	Executed      int
	GasGated      int
	Results       []PathResult
}

// Summarize sorts results by path and aggregates them.
func Summarize(results []PathResult) Summary {
	sorted := slices.Clone(results)
	slices.SortFunc(sorted, func(a, b PathResult) int { return a.Path - b.Path })

	metric := func(f func(PathResult) float64) Stat {
		values := make([]float64, len(sorted))
		for i, r := range sorted {
			values[i] = f(r)
		}
		mean, std := poolDomain.FeeStats(values)
		return Stat{Mean: mean, StdDev: std}
	}

	s := Summary{
		Paths:         len(sorted),
		LVR:           metric(func(r PathResult) float64 { return r.LVR }),
		ArbitrageGain: metric(func(r PathResult) float64 { return r.ArbitrageGain }),
		GasBurned:     metric(func(r PathResult) float64 { return r.GasBurned }),
		FeesCollected: metric(func(r PathResult) float64 { return r.FeesCollected }),
		Results:       sorted,
	}
	for _, r := range sorted {
		s.Calls += r.Calls
		s.Executed += r.Executed
		s.GasGated += r.GasGated
	}
	return s
}
