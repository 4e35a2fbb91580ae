package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fd1az/dynfee-amm/business/simulation/app"
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
	"github.com/fd1az/dynfee-amm/pkg/ui"
)

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	if err := r.Start(context.Background(), app.Plan{Paths: 2, BlocksPerPath: 10, SwapsPerBlock: 1, Workers: 1}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	res := domain.PathResult{Path: 0, LVR: -1.25, ArbitrageGain: 1, GasBurned: 0.25, Executed: 3}
	r.PathDone(res, 1, 2)
	r.Finish(domain.Summarize([]domain.PathResult{res}))
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Paths:           2", "[  1/  2] path 0", "-1.2500", "SUMMARY over 1 paths", "Simulation stopped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTUIReporter_Forwards(t *testing.T) {
	var got []any
	r := &TUIReporter{send: func(msg any) { got = append(got, msg) }}

	_ = r.Start(context.Background(), app.Plan{Paths: 1})
	r.PathDone(domain.PathResult{Path: 0}, 1, 1)
	r.Finish(domain.Summary{Paths: 1})

	if len(got) != 3 {
		t.Fatalf("sent %d messages, want 3", len(got))
	}
	if _, ok := got[0].(ui.PlanMsg); !ok {
		t.Errorf("first message = %T, want PlanMsg", got[0])
	}
	if m, ok := got[1].(ui.PathDoneMsg); !ok || m.Done != 1 {
		t.Errorf("second message = %#v", got[1])
	}
	if _, ok := got[2].(ui.SummaryMsg); !ok {
		t.Errorf("third message = %T, want SummaryMsg", got[2])
	}
}
