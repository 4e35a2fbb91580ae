// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PathRow represents a finished path in the list.
type PathRow struct {
	Path          int
	LVR           decimal.Decimal
	ArbitrageGain decimal.Decimal
	GasBurned     decimal.Decimal
	Executed      int
	GasGated      int
	FinalPrice    decimal.Decimal
}

// PathsComponent renders the most recent finished paths with scrolling.
type PathsComponent struct {
	rows    []PathRow
	maxRows int
	visible int
	offset  int
}

// NewPathsComponent keeps maxRows rows and shows visible of them.
func NewPathsComponent(maxRows, visible int) *PathsComponent {
	return &PathsComponent{
		rows:    make([]PathRow, 0),
		maxRows: maxRows,
		visible: visible,
	}
}

// Add prepends a row, dropping the oldest beyond maxRows.
func (p *PathsComponent) Add(row PathRow) {
	p.rows = append([]PathRow{row}, p.rows...)
	if len(p.rows) > p.maxRows {
		p.rows = p.rows[:p.maxRows]
	}
}

// Len returns the number of stored rows.
func (p *PathsComponent) Len() int { return len(p.rows) }

func (p *PathsComponent) ScrollUp() {
	if p.offset > 0 {
		p.offset--
	}
}

func (p *PathsComponent) ScrollDown() {
	if p.offset < len(p.rows)-p.visible {
		p.offset++
	}
}

// View renders the paths table.
func (p *PathsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2DD4BF"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	gainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))

	if len(p.rows) == 0 {
		return headerStyle.Render("PATHS") + "\n\n" + mutedStyle.Render("  Waiting for the first path...")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("PATHS (latest %d)", len(p.rows))))
	b.WriteString("\n")
	b.WriteString("┌──────┬─────────────┬─────────────┬───────────┬────────┬───────┬──────────┐\n")
	b.WriteString("│ Path │  LVR / day  │  Arb / day  │ Gas / day │ Trades │ Gated │  Final   │\n")
	b.WriteString("├──────┼─────────────┼─────────────┼───────────┼────────┼───────┼──────────┤\n")

	end := min(len(p.rows), p.offset+p.visible)
	for _, row := range p.rows[p.offset:end] {
		arb := fmt.Sprintf("%11s", row.ArbitrageGain.StringFixed(2))
		if row.ArbitrageGain.IsNegative() {
			arb = lossStyle.Render(arb)
		} else {
			arb = gainStyle.Render(arb)
		}
		fmt.Fprintf(&b, "│%5d │ %11s │ %s │ %9s │%7d │%6d │ %8s │\n",
			row.Path,
			row.LVR.StringFixed(2),
			arb,
			row.GasBurned.StringFixed(2),
			row.Executed,
			row.GasGated,
			row.FinalPrice.StringFixed(2),
		)
	}
	b.WriteString("└──────┴─────────────┴─────────────┴───────────┴────────┴───────┴──────────┘")

	if len(p.rows) > p.visible {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  rows %d-%d of %d", p.offset+1, end, len(p.rows))))
	}
	return b.String()
}
