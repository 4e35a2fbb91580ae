// Package app contains the Monte-Carlo runner and its ports.
package app

import (
	"context"

	poolApp "github.com/fd1az/dynfee-amm/business/pool/app"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
)

// EngineSource builds a fresh pool engine per path.
type EngineSource interface {
	New() (*poolApp.Engine, error)
}

// BlockSignals injects per-block market signals and returns the gas cost in Y.
type BlockSignals interface {
	OpenBlock(ctx context.Context, e *poolApp.Engine) (float64, error)
}

// Plan describes a run before it starts.
type Plan struct {
	RunID         string
	Paths         int
	BlocksPerPath int
	SwapsPerBlock int
	Workers       int
}

// Reporter displays simulation progress. PathDone may be called from several
// goroutines.
type Reporter interface {
	Start(ctx context.Context, plan Plan) error
	PathDone(result domain.PathResult, done, total int)
	Finish(summary domain.Summary)
	Stop() error
}
