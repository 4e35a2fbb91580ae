// Package di contains dependency injection tokens for the pool context.
package di

import (
	"github.com/fd1az/dynfee-amm/business/pool/app"
	"github.com/fd1az/dynfee-amm/internal/di"
)

// Public service tokens - exposed to other modules
var (
	EngineFactory = di.NewToken[*app.EngineFactory]("pool.EngineFactory")
	SignalFeed    = di.NewToken[*app.SignalFeed]("pool.SignalFeed")
)

func GetEngineFactory(c di.ServiceRegistry) *app.EngineFactory {
	return di.GetToken(c, EngineFactory)
}

func GetSignalFeed(c di.ServiceRegistry) *app.SignalFeed {
	return di.GetToken(c, SignalFeed)
}
