// Package infra contains infrastructure adapters for the simulation context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fd1az/dynfee-amm/business/simulation/app"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
	"github.com/fd1az/dynfee-amm/pkg/ui"
)

var (
	headerStyle = ui.HeaderStyle.UnsetPadding()
	mutedStyle  = ui.MutedValue
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ app.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter writes to out, or stdout when out is nil.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Start prints the run plan.
func (r *ConsoleReporter) Start(_ context.Context, plan app.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, headerStyle.Render("Dynamic-fee AMM simulation"))
	fmt.Fprintln(r.out, "==========================")
	if plan.RunID != "" {
		fmt.Fprintf(r.out, "Run:             %s\n", plan.RunID)
	}
	fmt.Fprintf(r.out, "Paths:           %d\n", plan.Paths)
	fmt.Fprintf(r.out, "Blocks per path: %d\n", plan.BlocksPerPath)
	fmt.Fprintf(r.out, "Swaps per block: %d\n", plan.SwapsPerBlock)
	fmt.Fprintf(r.out, "Workers:         %d\n", plan.Workers)
	fmt.Fprintln(r.out, "")
	return nil
}

// PathDone prints one line per finished path.
func (r *ConsoleReporter) PathDone(res domain.PathResult, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "[%3d/%3d] path %-4d lvr/day %12s  arb/day %12s  gas/day %10s  executed %d  gated %d\n",
		done, total, res.Path,
		decimal.NewFromFloat(res.LVR).StringFixed(4),
		decimal.NewFromFloat(res.ArbitrageGain).StringFixed(4),
		decimal.NewFromFloat(res.GasBurned).StringFixed(4),
		res.Executed, res.GasGated)
}

// Finish prints the summary table.
func (r *ConsoleReporter) Finish(s domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, headerStyle.Render(fmt.Sprintf("SUMMARY over %d paths (per day)", s.Paths)))
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "%-16s %16s %16s\n", "metric", "mean", "std dev")
	printStat(r.out, "LVR", s.LVR)
	printStat(r.out, "Arbitrage gain", s.ArbitrageGain)
	printStat(r.out, "Gas burned", s.GasBurned)
	printStat(r.out, "Fees collected", s.FeesCollected)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("calls %d  executed %d  gas gated %d", s.Calls, s.Executed, s.GasGated)))
}

func printStat(w io.Writer, name string, st domain.Stat) {
	fmt.Fprintf(w, "%-16s %16s %16s\n", name,
		decimal.NewFromFloat(st.Mean).StringFixed(4),
		decimal.NewFromFloat(st.StdDev).StringFixed(4))
}

// Stop prints the closing line.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Simulation stopped")
	return nil
}
