package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func TestBlockLedger_Observe(t *testing.T) {
	l := NewBlockLedger(nil)

	_, ok := l.CurrentBlock()
	require.False(t, ok)

	tr, changed := l.Observe(7)
	require.True(t, changed)
	require.False(t, tr.HadPrevious)
	require.Equal(t, uint64(1), l.TotalBlocks())
	require.True(t, l.FirstTransaction())

	_, changed = l.Observe(7)
	require.False(t, changed, "same block is not a transition")
	require.Equal(t, uint64(1), l.TotalBlocks())

	tr, changed = l.Observe(8)
	require.True(t, changed)
	require.True(t, tr.HadPrevious)
	require.Equal(t, uint64(7), tr.Previous)
	require.False(t, tr.Regressed)

	tr, changed = l.Observe(3)
	require.True(t, changed)
	require.True(t, tr.Regressed)
	require.Equal(t, uint64(3), l.TotalBlocks())
}

func TestBlockLedger_BlockReset(t *testing.T) {
	l := NewBlockLedger(nil)
	l.Observe(1)

	l.RecordFee(0.003)
	l.RecordFee(0.004)
	l.RecordSwapper(alice)
	require.True(t, l.ConsumeFirstTransaction())
	require.False(t, l.ConsumeFirstTransaction())

	l.Observe(2)

	require.Empty(t, l.SubmittedFees())
	require.False(t, l.InBlock(alice))
	require.True(t, l.Returning(alice))
	require.True(t, l.FirstTransaction())

	in, ok := l.Intent(alice)
	require.True(t, ok)
	require.Equal(t, uint64(1), in.Blocks, "intent persists across blocks")

	l.Observe(3)
	require.False(t, l.Returning(alice), "alice skipped block 2")
}

func TestBlockLedger_IntentCountedOncePerBlock(t *testing.T) {
	l := NewBlockLedger(KeepAll{})

	l.Observe(1)
	l.RecordSwapper(alice)
	l.RecordSwapper(alice)
	l.RecordSwapper(bob)

	l.Observe(2)
	l.RecordSwapper(alice)

	require.Equal(t, 1.0, l.IntentRate(alice))
	require.Equal(t, 0.5, l.IntentRate(bob))
	require.Zero(t, l.IntentRate(common.Address{}))
	require.Equal(t, 2, l.Swappers())

	in, _ := l.Intent(alice)
	require.Equal(t, uint64(2), in.LastBlock)
}

type evictIdle struct{ maxIdle uint64 }

func (e evictIdle) Retain(_ SwapperID, in Intent, totalBlocks uint64) bool {
	return totalBlocks-in.Blocks <= e.maxIdle
}

func TestBlockLedger_RetentionPolicy(t *testing.T) {
	l := NewBlockLedger(evictIdle{maxIdle: 1})

	l.Observe(1)
	l.RecordSwapper(alice)
	l.RecordSwapper(bob)
	l.Observe(2)
	l.RecordSwapper(bob)
	l.Observe(3)

	_, ok := l.Intent(alice)
	require.False(t, ok, "alice idle for two blocks")
	_, ok = l.Intent(bob)
	require.True(t, ok)
}
