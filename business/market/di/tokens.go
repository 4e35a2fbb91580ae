// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/fd1az/dynfee-amm/business/market/app"
	"github.com/fd1az/dynfee-amm/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketService = di.NewToken[*app.MarketService]("market.MarketService")
)

// Private dependency tokens - internal to market module
var (
	PressureSource = di.NewToken[app.PressureSource]("market:pressureSource")
	GasSource      = di.NewToken[app.GasSource]("market:gasSource")
)

func GetMarketService(c di.ServiceRegistry) *app.MarketService {
	return di.GetToken(c, MarketService)
}

func GetPressureSource(c di.ServiceRegistry) app.PressureSource {
	return di.GetToken(c, PressureSource)
}

func GetGasSource(c di.ServiceRegistry) app.GasSource {
	return di.GetToken(c, GasSource)
}
