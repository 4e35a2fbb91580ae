package infra

import (
	"context"

	"github.com/fd1az/dynfee-amm/business/simulation/app"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
	"github.com/fd1az/dynfee-amm/pkg/ui"
)

// TUIReporter implements Reporter by forwarding to the Bubble Tea program.
type TUIReporter struct {
	send func(msg any)
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter forwards to ui.Send.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{send: func(msg any) { ui.Send(msg) }}
}

// Start sends the run plan to the TUI.
func (r *TUIReporter) Start(_ context.Context, plan app.Plan) error {
	r.send(ui.PlanMsg{
		RunID:         plan.RunID,
		Paths:         plan.Paths,
		BlocksPerPath: plan.BlocksPerPath,
		SwapsPerBlock: plan.SwapsPerBlock,
		Workers:       plan.Workers,
	})
	return nil
}

// PathDone sends a finished path to the TUI.
func (r *TUIReporter) PathDone(res domain.PathResult, done, total int) {
	r.send(ui.PathDoneMsg{Result: res, Done: done, Total: total})
}

// Finish sends the summary to the TUI.
func (r *TUIReporter) Finish(s domain.Summary) {
	r.send(ui.SummaryMsg{Summary: s})
}

// Stop is a no-op; the program owns its own lifecycle.
func (r *TUIReporter) Stop() error {
	return nil
}
