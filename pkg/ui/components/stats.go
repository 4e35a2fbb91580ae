package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds the running totals of a simulation.
type Stats struct {
	PathsDone   int
	PathsTotal  int
	Calls       int
	Executed    int
	GasGated    int
	LVRSum      float64
	ArbGainSum  float64
	GasSum      float64
}

// Add folds one finished path into the totals.
func (s *Stats) Add(lvr, arb, gas float64, calls, executed, gated int) {
	s.PathsDone++
	s.Calls += calls
	s.Executed += executed
	s.GasGated += gated
	s.LVRSum += lvr
	s.ArbGainSum += arb
	s.GasSum += gas
}

func (s Stats) mean(sum float64) float64 {
	if s.PathsDone == 0 {
		return 0
	}
	return sum / float64(s.PathsDone)
}

// StatsComponent renders running statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update replaces the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current statistics.
func (s *StatsComponent) Stats() Stats { return s.stats }

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	execRate := float64(0)
	if s.stats.Calls > 0 {
		execRate = float64(s.stats.Executed) / float64(s.stats.Calls) * 100
	}

	return style.Render("RUNNING MEANS (per day)") + "\n" +
		fmt.Sprintf("Paths: %s  │  Calls: %s  │  Executed: %s (%.1f%%)  │  Gas gated: %s\n",
			valueStyle.Render(fmt.Sprintf("%d/%d", s.stats.PathsDone, s.stats.PathsTotal)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Calls)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executed)),
			execRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.GasGated)),
		) +
		fmt.Sprintf("LVR: %s  │  Arbitrage gain: %s  │  Gas burned: %s",
			valueStyle.Render(fmt.Sprintf("%.2f", s.stats.mean(s.stats.LVRSum))),
			valueStyle.Render(fmt.Sprintf("%.2f", s.stats.mean(s.stats.ArbGainSum))),
			valueStyle.Render(fmt.Sprintf("%.2f", s.stats.mean(s.stats.GasSum))),
		)
}
