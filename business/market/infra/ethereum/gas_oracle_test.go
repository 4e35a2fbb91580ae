package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

type fakeRPC struct {
	wei    *big.Int
	err    error
	calls  int
	closed bool
}

func (f *fakeRPC) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.wei), nil
}

func (f *fakeRPC) Close() { f.closed = true }

func newOracle(t *testing.T, cfg GasOracleConfig, rpc *fakeRPC) *GasOracle {
	t.Helper()
	g, err := NewGasOracle(cfg, logger.NewNop())
	require.NoError(t, err)
	if rpc != nil {
		g.setClient(rpc)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestGasOracle_NotConnected(t *testing.T) {
	g := newOracle(t, GasOracleConfig{}, nil)

	require.False(t, g.Connected())
	_, err := g.GasPrice(context.Background())
	require.Equal(t, apperror.CodeEthereumConnectionFailed, apperror.GetCode(err))
}

func TestGasOracle_CachesReading(t *testing.T) {
	rpc := &fakeRPC{wei: big.NewInt(30_000_000_000)}
	g := newOracle(t, GasOracleConfig{CacheTTL: time.Minute}, rpc)
	ctx := context.Background()

	first, err := g.GasPrice(ctx)
	require.NoError(t, err)
	require.InDelta(t, 30.0, first.Gwei(), 1e-9)

	second, err := g.GasPrice(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, rpc.calls)
}

func TestGasOracle_CapsAtMax(t *testing.T) {
	rpc := &fakeRPC{wei: big.NewInt(900_000_000_000)}
	g := newOracle(t, GasOracleConfig{MaxGasPrice: big.NewInt(500_000_000_000)}, rpc)

	price, err := g.GasPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, "500000000000", price.Wei.String())
}

func TestGasOracle_RPCErrorAndBreaker(t *testing.T) {
	rpc := &fakeRPC{err: errors.New("node unavailable")}
	g := newOracle(t, GasOracleConfig{}, rpc)
	ctx := context.Background()

	for range 5 {
		_, err := g.GasPrice(ctx)
		require.Equal(t, apperror.CodeEthereumRPCError, apperror.GetCode(err))
	}

	_, err := g.GasPrice(ctx)
	require.Equal(t, apperror.CodeCircuitOpen, apperror.GetCode(err))
	require.Equal(t, 5, rpc.calls)
	require.Equal(t, "open", g.BreakerState().String())
}

func TestGasOracle_Close(t *testing.T) {
	rpc := &fakeRPC{wei: big.NewInt(1)}
	g, err := NewGasOracle(GasOracleConfig{}, logger.NewNop())
	require.NoError(t, err)
	g.setClient(rpc)

	require.NoError(t, g.Close())
	require.True(t, rpc.closed)
	require.False(t, g.Connected())
}
