// Package di contains dependency injection tokens for the simulation context.
package di

import (
	"github.com/fd1az/dynfee-amm/business/simulation/app"
	"github.com/fd1az/dynfee-amm/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Runner = di.NewToken[*app.Runner]("simulation.Runner")
)

// Private dependency tokens - internal to simulation module
var (
	Reporter = di.NewToken[app.Reporter]("simulation:reporter")
)

func GetRunner(c di.ServiceRegistry) *app.Runner {
	return di.GetToken(c, Runner)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
