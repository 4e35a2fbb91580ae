package app

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/dynfee-amm/business/market/domain"
	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

type pressureFunc func(context.Context) (float64, error)

func (f pressureFunc) Pressure(ctx context.Context) (float64, error) { return f(ctx) }

type gasFunc func(context.Context, float64) (float64, error)

func (f gasFunc) Gas(ctx context.Context, price float64) (float64, error) { return f(ctx, price) }

type bookSource struct {
	ob  *domain.Orderbook
	err error
}

func (b bookSource) Orderbook(context.Context) (*domain.Orderbook, error) { return b.ob, b.err }

type oracle struct {
	wei *big.Int
	err error
}

func (o oracle) GasPrice(context.Context) (*domain.GasPrice, error) {
	if o.err != nil {
		return nil, o.err
	}
	return domain.NewGasPrice(o.wei), nil
}

func TestMarketService_Pressure(t *testing.T) {
	ctx := context.Background()

	svc := NewMarketService(pressureFunc(func(context.Context) (float64, error) { return 0.25, nil }), nil, 0, logger.NewNop())
	p, err := svc.Pressure(ctx)
	require.NoError(t, err)
	require.Equal(t, 0.25, p)

	boom := errors.New("exchange down")
	svc = NewMarketService(pressureFunc(func(context.Context) (float64, error) { return 0.9, boom }), nil, 0, logger.NewNop())
	p, err = svc.Pressure(ctx)
	require.Zero(t, p)
	require.ErrorIs(t, err, boom)
	require.Equal(t, apperror.CodeSignalProviderFailure, apperror.GetCode(err))

	failures, _ := svc.Failures()
	require.Equal(t, int64(1), failures)
}

func TestMarketService_GasFallback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		gas  gasFunc
		want float64
	}{
		{name: "live", gas: func(context.Context, float64) (float64, error) { return 4.2, nil }, want: 4.2},
		{name: "error", gas: func(context.Context, float64) (float64, error) { return 0, errors.New("rpc") }, want: 1.5},
		{name: "nan", gas: func(context.Context, float64) (float64, error) { return math.NaN(), nil }, want: 1.5},
		{name: "negative", gas: func(context.Context, float64) (float64, error) { return -1, nil }, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMarketService(nil, tt.gas, 1.5, logger.NewNop())
			got, err := svc.Gas(ctx, 1200)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOrderbookPressure(t *testing.T) {
	ctx := context.Background()
	ob := &domain.Orderbook{
		Bids: []domain.Level{{Price: dec("100"), Size: dec("1")}},
		Asks: []domain.Level{{Price: dec("100"), Size: dec("3")}},
	}

	p, err := NewOrderbookPressure(bookSource{ob: ob}, 0).Pressure(ctx)
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-12)

	_, err = NewOrderbookPressure(bookSource{err: errors.New("down")}, 1).Pressure(ctx)
	require.Error(t, err)
}

func TestOracleGas(t *testing.T) {
	ctx := context.Background()
	wei := big.NewInt(25_000_000_000)

	got, err := NewOracleGas(oracle{wei: wei}, 200_000).Gas(ctx, 1200)
	require.NoError(t, err)
	require.InDelta(t, 6.0, got, 1e-12)

	_, err = NewOracleGas(oracle{err: errors.New("rpc")}, 200_000).Gas(ctx, 1200)
	require.Error(t, err)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
