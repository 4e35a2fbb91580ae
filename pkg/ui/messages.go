// Package ui provides the Bubble Tea TUI for the AMM simulator.
package ui

import (
	"github.com/fd1az/dynfee-amm/business/simulation/domain"
)

// PlanMsg is sent once when a run starts.
type PlanMsg struct {
	RunID         string
	Paths         int
	BlocksPerPath int
	SwapsPerBlock int
	Workers       int
}

// PathDoneMsg is sent when a path finishes.
type PathDoneMsg struct {
	Result domain.PathResult
	Done   int
	Total  int
}

// SummaryMsg carries the final aggregate.
type SummaryMsg struct {
	Summary domain.Summary
}

// ErrorMsg is sent when the run fails.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

