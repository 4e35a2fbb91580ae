package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// SummaryRow is one metric of the final table.
type SummaryRow struct {
	Metric string
	Mean   decimal.Decimal
	StdDev decimal.Decimal
}

// SummaryComponent renders the final mean/stddev table.
type SummaryComponent struct {
	rows  []SummaryRow
	paths int
}

func NewSummaryComponent() *SummaryComponent {
	return &SummaryComponent{}
}

// Set replaces the table contents.
func (s *SummaryComponent) Set(paths int, rows []SummaryRow) {
	s.paths = paths
	s.rows = rows
}

// Ready reports whether a summary has been set.
func (s *SummaryComponent) Ready() bool { return len(s.rows) > 0 }

// View renders the summary table.
func (s *SummaryComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2DD4BF"))
	metricStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E1"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("SUMMARY over %d paths (per day)", s.paths)))
	b.WriteString("\n")
	b.WriteString("┌──────────────────┬──────────────┬──────────────┐\n")
	b.WriteString("│ Metric           │         Mean │      Std dev │\n")
	b.WriteString("├──────────────────┼──────────────┼──────────────┤\n")
	for _, row := range s.rows {
		fmt.Fprintf(&b, "│ %s │ %12s │ %12s │\n",
			metricStyle.Render(fmt.Sprintf("%-16s", row.Metric)),
			row.Mean.StringFixed(4),
			row.StdDev.StringFixed(4),
		)
	}
	b.WriteString("└──────────────────┴──────────────┴──────────────┘")
	return b.String()
}
