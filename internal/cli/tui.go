package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depwatch/pkg/observability"
	"github.com/matzehuels/depwatch/pkg/resolver"
)

// =============================================================================
// checkModel - Live resolution progress
// =============================================================================

type (
	lookupsStartedMsg struct{ total int }
	lookupDoneMsg     struct {
		pkg    string
		failed bool
	}
	resolveDoneMsg struct {
		report *resolver.Report
		err    error
	}
	tickMsg time.Time
)

// checkModel is the bubbletea model shown while a repository resolves.
type checkModel struct {
	repo      string
	frame     int
	total     int
	done      int
	failed    int
	last      string
	finished  bool
	cancelled bool
	report    *resolver.Report
	err       error
}

func newCheckModel(repo string) checkModel {
	return checkModel{repo: repo}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m checkModel) Init() tea.Cmd {
	return tick()
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case lookupsStartedMsg:
		m.total = msg.total
	case lookupDoneMsg:
		m.done++
		m.last = msg.pkg
		if msg.failed {
			m.failed++
		}
	case resolveDoneMsg:
		m.finished = true
		m.report, m.err = msg.report, msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m checkModel) View() string {
	if m.finished || m.cancelled {
		return ""
	}

	var b strings.Builder
	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	b.WriteString(styleIconSpinner.Render(frame) + " " + StyleDim.Render("Resolving ") + StyleHighlight.Render(m.repo))
	b.WriteString("\n")

	if m.total > 0 {
		const width = 30
		filled := width * m.done / m.total
		bar := StyleSuccess.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
		b.WriteString(fmt.Sprintf("  %s %s", bar, StyleNumber.Render(fmt.Sprintf("%d/%d", m.done, m.total))))
		if m.failed > 0 {
			b.WriteString(" " + StyleWarning.Render(fmt.Sprintf("(%d failed)", m.failed)))
		}
		if m.last != "" {
			b.WriteString(" " + StyleDim.Render(m.last))
		}
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("  q quit"))
	b.WriteString("\n")
	return b.String()
}

// progressHooks forwards registry lookup events to a running program.
type progressHooks struct {
	observability.NoopResolveHooks
	send func(tea.Msg)
}

func (h progressHooks) OnLookupsStart(_ context.Context, total int) {
	h.send(lookupsStartedMsg{total: total})
}

func (h progressHooks) OnLookupComplete(_ context.Context, _, pkg string, _ time.Duration, err error) {
	h.send(lookupDoneMsg{pkg: pkg, failed: err != nil})
}

// resolveWithTUI resolves rawURL while rendering live progress on stderr.
// Quitting the view cancels the resolution.
func resolveWithTUI(ctx context.Context, res *resolver.Resolver, rawURL string) (*resolver.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newCheckModel(rawURL), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	observability.SetResolveHooks(progressHooks{send: p.Send})
	defer observability.SetResolveHooks(observability.NoopResolveHooks{})

	go func() {
		report, err := res.ResolveReport(ctx, rawURL)
		p.Send(resolveDoneMsg{report: report, err: err})
	}()

	final, err := p.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	m := final.(checkModel)
	if m.cancelled {
		return nil, context.Canceled
	}
	return m.report, m.err
}

// =============================================================================
// Report rendering
// =============================================================================

// renderReport formats a resolution report for the terminal.
func renderReport(r *resolver.Report) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(r.Repository))
	b.WriteString("\n")
	b.WriteString(keyValue("Manager", r.Kind.String()))
	b.WriteString(keyValue("Checked", fmt.Sprintf("%d", r.Checked)))
	b.WriteString(keyValue("Outdated", fmt.Sprintf("%d", len(r.Outdated))))
	b.WriteString("\n")

	if len(r.Outdated) == 0 {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " All dependencies are up to date\n")
	} else {
		rows := make([][]string, len(r.Outdated))
		for i, d := range r.Outdated {
			rows[i] = []string{d.Name, d.Version, d.LatestVersion}
		}
		headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Package", "Declared", "Latest").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == -1:
					return headerStyle
				case col == 2:
					return lipgloss.NewStyle().Foreground(colorYellow)
				case col == 1:
					return lipgloss.NewStyle().Foreground(colorGray)
				default:
					return lipgloss.NewStyle().Foreground(colorWhite)
				}
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	for _, s := range r.Skipped {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(s.Name) + " " + StyleDim.Render(s.Reason) + "\n")
	}
	return b.String()
}
