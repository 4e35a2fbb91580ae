package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice represents gas price information.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{Wei: wei, Timestamp: time.Now()}
}

// Gwei returns the price in gwei.
func (g *GasPrice) Gwei() float64 {
	return decimal.NewFromBigInt(g.Wei, -9).InexactFloat64()
}

// GasCost is the cost of one pool transaction in the native token (X) and
// in the quote token (Y).
type GasCost struct {
	GasLimit uint64
	GasPrice *big.Int // in wei
	TotalWei *big.Int // gasLimit * gasPrice
	X        decimal.Decimal
	Y        decimal.Decimal
}

// NewGasCost converts gasLimit·gasPrice to X (1 X = 10^18 wei) and then to Y
// at priceXInY.
func NewGasCost(gasLimit uint64, gasPriceWei *big.Int, priceXInY decimal.Decimal) *GasCost {
	totalWei := new(big.Int).Mul(gasPriceWei, new(big.Int).SetUint64(gasLimit))
	x := decimal.NewFromBigInt(totalWei, -18)

	return &GasCost{
		GasLimit: gasLimit,
		GasPrice: gasPriceWei,
		TotalWei: totalWei,
		X:        x,
		Y:        x.Mul(priceXInY),
	}
}
