// Package domain contains the core domain types for the market context:
// order books and the pressure signal derived from them, and gas costs.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/dynfee-amm/internal/apperror"
)

// Level is a single price level in an order book.
type Level struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Notional returns price times size.
func (l Level) Notional() decimal.Decimal {
	return l.Price.Mul(l.Size)
}

// Orderbook is a snapshot of one market, best levels first.
type Orderbook struct {
	Symbol    string
	Bids      []Level
	Asks      []Level
	Timestamp time.Time
}

// Validate checks the book is usable for a pressure signal.
func (o *Orderbook) Validate() error {
	if len(o.Bids) == 0 || len(o.Asks) == 0 {
		return apperror.New(apperror.CodeInvalidOrderbook,
			apperror.WithContext(fmt.Sprintf("%s: bids=%d asks=%d", o.Symbol, len(o.Bids), len(o.Asks))))
	}
	for _, side := range [][]Level{o.Bids, o.Asks} {
		for _, l := range side {
			if !l.Price.IsPositive() || l.Size.IsNegative() {
				return apperror.New(apperror.CodeInvalidOrderbook,
					apperror.WithContext(fmt.Sprintf("%s: bad level %s@%s", o.Symbol, l.Size, l.Price)))
			}
		}
	}
	return nil
}

// BestBid returns the best (highest) bid level.
func (o *Orderbook) BestBid() *Level {
	if len(o.Bids) == 0 {
		return nil
	}
	return &o.Bids[0]
}

// BestAsk returns the best (lowest) ask level.
func (o *Orderbook) BestAsk() *Level {
	if len(o.Asks) == 0 {
		return nil
	}
	return &o.Asks[0]
}

// MidPrice returns the mid-market price.
func (o *Orderbook) MidPrice() decimal.Decimal {
	bid := o.BestBid()
	ask := o.BestAsk()
	if bid == nil || ask == nil {
		return decimal.Zero
	}
	return bid.Price.Add(ask.Price).Div(decimal.NewFromInt(2))
}

// L1Pressure is (askNotional - bidNotional) / (askNotional + bidNotional)
// at the top of book. Positive means the ask side dominates.
func (o *Orderbook) L1Pressure() (float64, error) {
	return o.L2Pressure(1)
}

// L2Pressure is L1Pressure summed over the first depth levels of each side.
func (o *Orderbook) L2Pressure(depth int) (float64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	if depth < 1 {
		depth = 1
	}

	ask := sumNotional(o.Asks, depth)
	bid := sumNotional(o.Bids, depth)
	total := ask.Add(bid)
	if total.IsZero() {
		return 0, nil
	}

	p := ask.Sub(bid).Div(total).InexactFloat64()
	return max(-1, min(1, p)), nil
}

func sumNotional(levels []Level, depth int) decimal.Decimal {
	sum := decimal.Zero
	for i := 0; i < len(levels) && i < depth; i++ {
		sum = sum.Add(levels[i].Notional())
	}
	return sum
}
