package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fd1az/dynfee-amm/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome Phase = "welcome" // Initial welcome screen
	PhaseRunning Phase = "running" // Paths in flight
	PhaseDone    Phase = "done"    // Summary available
	PhaseFailed  Phase = "failed"  // Run aborted
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const maxEvents = 6

// event is one line of the activity feed under the tables.
type event struct {
	failed bool
	text   string
	at     time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	paths   *components.PathsComponent
	stats   *components.StatsComponent
	summary *components.SummaryComponent
	bar     progress.Model
	keys    KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time
	runStart     time.Time
	elapsed      time.Duration

	// State
	quitting bool
	width    int
	height   int
	plan     PlanMsg
	events   []event
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		paths:        components.NewPathsComponent(100, 10),
		stats:        components.NewStatsComponent(),
		summary:      components.NewSummaryComponent(),
		bar:          progress.New(progress.WithDefaultGradient()),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
	}
}

// Phase returns the current phase.
func (m Model) Phase() Phase { return m.phase }

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) startRun() Model {
	m.phase = PhaseRunning
	m.runStart = time.Now()
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
	return m
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the run
		if m.phase == PhaseWelcome {
			return m.startRun(), tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.paths.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.paths.ScrollDown()
		case key.Matches(msg, m.keys.Clear):
			m.events = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(20, min(80, msg.Width-20))

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m = m.startRun()
		}
		if m.phase == PhaseRunning {
			m.elapsed = time.Since(m.runStart)
		}
		return m, tickCmd()

	case PlanMsg:
		m.plan = msg
		m.stats.Update(components.Stats{PathsTotal: msg.Paths})
		m = m.record(false, fmt.Sprintf("run %s: %d paths × %d blocks on %d workers",
			shortID(msg.RunID), msg.Paths, msg.BlocksPerPath, msg.Workers))

	case PathDoneMsg:
		r := msg.Result
		s := m.stats.Stats()
		s.PathsTotal = msg.Total
		s.Add(r.LVR, r.ArbitrageGain, r.GasBurned, r.Calls, r.Executed, r.GasGated)
		m.stats.Update(s)

		m.paths.Add(components.PathRow{
			Path:          r.Path,
			LVR:           decimal.NewFromFloat(r.LVR),
			ArbitrageGain: decimal.NewFromFloat(r.ArbitrageGain),
			GasBurned:     decimal.NewFromFloat(r.GasBurned),
			Executed:      r.Executed,
			GasGated:      r.GasGated,
			FinalPrice:    decimal.NewFromFloat(r.FinalPrice),
		})

	case SummaryMsg:
		s := msg.Summary
		row := func(name string, mean, std float64) components.SummaryRow {
			return components.SummaryRow{
				Metric: name,
				Mean:   decimal.NewFromFloat(mean),
				StdDev: decimal.NewFromFloat(std),
			}
		}
		m.summary.Set(s.Paths, []components.SummaryRow{
			row("LVR", s.LVR.Mean, s.LVR.StdDev),
			row("Arbitrage gain", s.ArbitrageGain.Mean, s.ArbitrageGain.StdDev),
			row("Gas burned", s.GasBurned.Mean, s.GasBurned.StdDev),
			row("Fees collected", s.FeesCollected.Mean, s.FeesCollected.StdDev),
		})
		m.phase = PhaseDone
		m.elapsed = time.Since(m.runStart)

	case ErrorMsg:
		m = m.record(true, msg.Error.Error())
		if m.phase == PhaseRunning {
			m.phase = PhaseFailed
		}
	}

	return m, nil
}

// record appends to the feed, dropping the oldest entries past maxEvents.
func (m Model) record(failed bool, text string) Model {
	m.events = append(m.events, event{failed: failed, text: text, at: time.Now()})
	if n := len(m.events); n > maxEvents {
		m.events = append([]event(nil), m.events[n-maxEvents:]...)
	}
	return m
}

func (m Model) failures() int {
	n := 0
	for _, e := range m.events {
		if e.failed {
			n++
		}
	}
	return n
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m Model) progress() float64 {
	s := m.stats.Stats()
	if s.PathsTotal == 0 {
		return 0
	}
	return float64(s.PathsDone) / float64(s.PathsTotal)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	width := max(m.width-4, 60)
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Dynamic-fee AMM simulator "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.progress()))
	b.WriteString("\n\n")
	b.WriteString(BoxStyle.Width(width).Render(m.stats.View()))
	b.WriteString("\n")

	if m.summary.Ready() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			BoxStyle.Render(m.paths.View()),
			BoxStyle.Render(m.summary.View()),
		))
	} else {
		b.WriteString(BoxStyle.Render(m.paths.View()))
	}
	b.WriteString("\n\n")

	for _, e := range m.events {
		line := e.at.Format("15:04:05") + "  " + e.text
		if e.failed {
			b.WriteString(StatusFailed.UnsetBold().Render("  ✗ " + line))
		} else {
			b.WriteString(MutedValue.Render("    " + line))
		}
		b.WriteByte('\n')
	}
	if len(m.events) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString(HelpStyle.Render("q: quit • ↑↓: scroll • e: clear feed"))
	return b.String()
}

func (m Model) renderStatusBar() string {
	var status string
	switch m.phase {
	case PhaseRunning:
		spinners := []string{"◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/200) % len(spinners)
		status = StatusRunning.Render(spinners[idx] + " Running")
	case PhaseDone:
		status = StatusDone.Render("✓ Done")
	case PhaseFailed:
		status = StatusFailed.Render("✗ Failed")
	}

	parts := []string{
		status,
		fmt.Sprintf("Paths: %d", m.plan.Paths),
		fmt.Sprintf("Blocks/path: %d", m.plan.BlocksPerPath),
		fmt.Sprintf("Swaps/block: %d", m.plan.SwapsPerBlock),
		fmt.Sprintf("Workers: %d", m.plan.Workers),
		MutedValue.Render(fmt.Sprintf("Elapsed: %s", m.elapsed.Round(time.Second))),
	}
	if n := m.failures(); n > 0 {
		parts = append(parts, StatusFailed.Render(fmt.Sprintf("Errors: %d", n)))
	}
	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen shows the banner until the run starts.
func (m Model) renderWelcomeScreen() string {
	dots := strings.Repeat(".", int(time.Since(m.welcomeStart)/(300*time.Millisecond))%4)

	banner := HeaderStyle.Render(`
     █████╗ ███╗   ███╗███╗   ███╗
    ██╔══██╗████╗ ████║████╗ ████║
    ███████║██╔████╔██║██╔████╔██║
    ██╔══██║██║╚██╔╝██║██║╚██╔╝██║
    ██║  ██║██║ ╚═╝ ██║██║ ╚═╝ ██║
    ╚═╝  ╚═╝╚═╝     ╚═╝╚═╝     ╚═╝`)

	return lipgloss.JoinVertical(lipgloss.Left,
		"\n\n",
		banner,
		"",
		MutedValue.Render("      D Y N A M I C   F E E   S I M U L A T O R"),
		"\n",
		StatusDone.UnsetBold().Render("              Preparing paths"+dots),
		"",
		MutedValue.Render("        any key to start now, q to quit"),
	) + "\n"
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and the run
// should begin. It is set by main.
var OnStartModules func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
