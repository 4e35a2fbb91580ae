package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// SwapperID identifies a trader across blocks.
type SwapperID = common.Address

// Intent is the cumulative participation record of one swapper.
type Intent struct {
	Blocks    uint64
	LastBlock uint64
}

// RetentionPolicy decides whether a swapper's intent record survives a block
// transition.
type RetentionPolicy interface {
	Retain(id SwapperID, intent Intent, totalBlocks uint64) bool
}

// KeepAll never evicts intent records.
type KeepAll struct{}

func (KeepAll) Retain(SwapperID, Intent, uint64) bool { return true }

// Transition describes a block change observed by the ledger.
type Transition struct {
	Previous    uint64
	HadPrevious bool
	Current     uint64
	Regressed   bool
}

// LedgerView is the read-only side of a BlockLedger.
type LedgerView interface {
	CurrentBlock() (uint64, bool)
	SubmittedFees() []float64
	TotalBlocks() uint64
	FirstTransaction() bool
	Returning(id SwapperID) bool
	InBlock(id SwapperID) bool
	IntentRate(id SwapperID) float64
	Intent(id SwapperID) (Intent, bool)
}

// BlockLedger tracks per-block bookkeeping: submitted fees, the swappers of
// the open and just-closed blocks, and cumulative swapper intent.
type BlockLedger struct {
	currentBlock uint64
	hasBlock     bool

	submittedFees    []float64
	blockSwappers    map[SwapperID]struct{}
	closedSwappers   map[SwapperID]struct{}
	intent           map[SwapperID]*Intent
	totalBlocks      uint64
	firstTransaction bool
	retention        RetentionPolicy
}

// NewBlockLedger creates an empty ledger. A nil policy keeps everything.
func NewBlockLedger(retention RetentionPolicy) *BlockLedger {
	if retention == nil {
		retention = KeepAll{}
	}
	return &BlockLedger{
		blockSwappers:  make(map[SwapperID]struct{}),
		closedSwappers: make(map[SwapperID]struct{}),
		intent:         make(map[SwapperID]*Intent),
		retention:      retention,
	}
}

// Observe closes the current block and opens blockID when they differ.
func (l *BlockLedger) Observe(blockID uint64) (Transition, bool) {
	if l.hasBlock && l.currentBlock == blockID {
		return Transition{}, false
	}

	t := Transition{
		Previous:    l.currentBlock,
		HadPrevious: l.hasBlock,
		Current:     blockID,
		Regressed:   l.hasBlock && blockID < l.currentBlock,
	}

	l.closedSwappers, l.blockSwappers = l.blockSwappers, make(map[SwapperID]struct{})
	l.submittedFees = l.submittedFees[:0]
	l.totalBlocks++
	l.firstTransaction = true
	l.currentBlock = blockID
	l.hasBlock = true

	if _, keepAll := l.retention.(KeepAll); !keepAll {
		for id, in := range l.intent {
			if !l.retention.Retain(id, *in, l.totalBlocks) {
				delete(l.intent, id)
			}
		}
	}

	return t, true
}

// RecordFee appends a submitted fee to the open block.
func (l *BlockLedger) RecordFee(fee float64) {
	l.submittedFees = append(l.submittedFees, fee)
}

// RecordSwapper marks id as active in the open block. Intent counts at most
// once per block.
func (l *BlockLedger) RecordSwapper(id SwapperID) {
	if _, seen := l.blockSwappers[id]; seen {
		return
	}
	l.blockSwappers[id] = struct{}{}

	in, ok := l.intent[id]
	if !ok {
		in = &Intent{}
		l.intent[id] = in
	}
	in.Blocks++
	in.LastBlock = l.currentBlock
}

// ConsumeFirstTransaction clears the first-transaction flag and reports
// whether it was set.
func (l *BlockLedger) ConsumeFirstTransaction() bool {
	was := l.firstTransaction
	l.firstTransaction = false
	return was
}

func (l *BlockLedger) CurrentBlock() (uint64, bool) { return l.currentBlock, l.hasBlock }

// SubmittedFees returns the fees of the open block. The slice is shared.
func (l *BlockLedger) SubmittedFees() []float64 { return l.submittedFees }

func (l *BlockLedger) TotalBlocks() uint64 { return l.totalBlocks }

func (l *BlockLedger) FirstTransaction() bool { return l.firstTransaction }

// Returning reports whether id traded in the block that was just closed.
func (l *BlockLedger) Returning(id SwapperID) bool {
	_, ok := l.closedSwappers[id]
	return ok
}

// InBlock reports whether id has traded in the open block.
func (l *BlockLedger) InBlock(id SwapperID) bool {
	_, ok := l.blockSwappers[id]
	return ok
}

// IntentRate is the share of all observed blocks in which id traded.
func (l *BlockLedger) IntentRate(id SwapperID) float64 {
	in, ok := l.intent[id]
	if !ok || l.totalBlocks == 0 {
		return 0
	}
	return float64(in.Blocks) / float64(l.totalBlocks)
}

func (l *BlockLedger) Intent(id SwapperID) (Intent, bool) {
	in, ok := l.intent[id]
	if !ok {
		return Intent{}, false
	}
	return *in, true
}

// Swappers returns the number of swappers with an intent record.
func (l *BlockLedger) Swappers() int { return len(l.intent) }
