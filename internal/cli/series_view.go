package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hinoue/evmkit/internal/cli/formatter"
	"github.com/hinoue/evmkit/internal/service"
)

// barWidth is the drawing width of the largest curve value.
const barWidth = 40

// seriesModel is a scrollable terminal view of the three curves, one
// row per date with proportional bars for PV, EV, and AC.
type seriesModel struct {
	report *service.Report
	vp     viewport.Model
	ready  bool
}

func newSeriesModel(report *service.Report) seriesModel {
	return seriesModel{report: report}
}

func (m seriesModel) Init() tea.Cmd {
	return nil
}

func (m seriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := 3
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight)
			m.vp.SetContent(m.renderRows())
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m seriesModel) View() string {
	if !m.ready {
		return "loading..."
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		formatter.StyleHeader.Render("EVM CURVES  "),
		formatter.StyleBlue.Render("PV "),
		formatter.StyleGreen.Render("EV "),
		formatter.StyleRed.Render("AC "),
		formatter.Dim("  (q to quit)"),
	)
	return header + "\n\n" + m.vp.View()
}

func (m seriesModel) renderRows() string {
	rows := m.report.Result.Rows()

	var max float64
	for _, row := range rows {
		for _, v := range []float64{row.PV, row.EV, row.AC} {
			if v > max {
				max = v
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		date := row.Date.Format("2006-01-02")
		if row.Date.Equal(m.report.Result.BasisDate) {
			date = formatter.Bold(date)
		}
		b.WriteString(fmt.Sprintf("%s  %s %7.1f\n", date, bar(row.PV, max, formatter.StyleBlue), row.PV))
		b.WriteString(fmt.Sprintf("%s  %s %7.1f\n", strings.Repeat(" ", 10), bar(row.EV, max, formatter.StyleGreen), row.EV))
		b.WriteString(fmt.Sprintf("%s  %s %7.1f\n\n", strings.Repeat(" ", 10), bar(row.AC, max, formatter.StyleRed), row.AC))
	}
	return b.String()
}

// bar renders a value as a proportional block bar.
func bar(v, max float64, style lipgloss.Style) string {
	n := 0
	if max > 0 {
		n = int(v / max * barWidth)
	}
	if n > barWidth {
		n = barWidth
	}
	return style.Render(strings.Repeat("█", n)) + formatter.Dim(strings.Repeat("·", barWidth-n))
}

// runSeriesView starts the interactive curve browser for a report.
func runSeriesView(report *service.Report) error {
	if len(report.Result.Rows()) == 0 {
		return fmt.Errorf("nothing to display for basis %s", report.Result.BasisDate.Format("2006-01-02"))
	}
	_, err := tea.NewProgram(newSeriesModel(report), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("series viewer: %w", err)
	}
	return nil
}
