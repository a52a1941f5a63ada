// Package monitor renders a terminal dashboard over a running trackd
// daemon's stats endpoints.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/trackd/internal/goals"
	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	trendDays       = 14
	maxCategories   = 6
)

// Snapshot holds one poll of the daemon's stats surface.
type Snapshot struct {
	Stats  ledger.Stats
	Trends []ledger.TrendPoint
	Goals  []goals.Goal
}

// Model is the BubbleTea dashboard model.
type Model struct {
	baseURL    string
	interval   time.Duration
	lastUpdate time.Time
	snapshot   Snapshot
	err        error
	quitting   bool

	goalProgress     progress.Model
	categoryProgress progress.Model
}

// Lipgloss styles (k9s-inspired color scheme)
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// NewModel creates a dashboard model polling the daemon at baseURL.
func NewModel(baseURL string, interval time.Duration) Model {
	goalProg := progress.New(
		progress.WithGradient("#00ff00", "#ffff00"),
		progress.WithWidth(40),
	)
	catProg := progress.New(
		progress.WithGradient("#00ffff", "#ff00ff"),
		progress.WithWidth(40),
	)

	return Model{
		baseURL:          baseURL,
		interval:         interval,
		goalProgress:     goalProg,
		categoryProgress: catProg,
	}
}

// Message types
type tickMsg time.Time
type snapshotMsg Snapshot
type errMsg error

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		fetchSnapshot(m.baseURL),
	)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshot polls the daemon's stats, trends, and goals endpoints.
func fetchSnapshot(baseURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client := NewClient(baseURL)

		stats, err := client.FetchStats(ctx)
		if err != nil {
			return errMsg(err)
		}
		trends, err := client.FetchTrends(ctx, trendDays)
		if err != nil {
			return errMsg(err)
		}
		stored, err := client.FetchGoals(ctx)
		if err != nil {
			return errMsg(err)
		}

		return snapshotMsg(Snapshot{Stats: stats, Trends: trends, Goals: stored})
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, fetchSnapshot(m.baseURL)
		}

	case tickMsg:
		return m, tea.Batch(
			tick(m.interval),
			fetchSnapshot(m.baseURL),
		)

	case snapshotMsg:
		m.snapshot = Snapshot(msg)
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case errMsg:
		m.err = error(msg)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.renderError()
	}
	return m.renderDashboard()
}

func (m Model) renderError() string {
	header := headerStyle.Render(" trackd Dashboard ")

	var content string
	content += "\n"
	content += errorStyle.Render("⚠ Cannot reach the trackd daemon") + "\n"
	content += "\n"
	content += dimStyle.Render("URL: ") + valueStyle.Render(m.baseURL) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n"
	content += "\n"
	content += dimStyle.Render("Is trackd running? Start it with: trackd") + "\n"
	content += "\n"
	content += footerStyle.Render("[q] quit  [r] retry") + "\n"

	return containerStyle.Render(header + "\n" + content)
}

func (m Model) renderDashboard() string {
	var content string

	lastUpdateStr := "Never"
	if !m.lastUpdate.IsZero() {
		lastUpdateStr = m.lastUpdate.Format("3:04:05 PM")
	}

	content += headerStyle.Render(" trackd Dashboard ") + "\n"
	content += dimStyle.Render("Updated: ") + valueStyle.Render(lastUpdateStr) + "\n"

	// Totals
	stats := m.snapshot.Stats
	content += "\n" + sectionStyle.Render("┃ Activity") + "\n"
	content += labelStyle.Render("  Total: ") +
		valueStyle.Render(FormatMinutes(stats.TotalMinutes)) +
		dimStyle.Render("  across ") + valueStyle.Render(FormatCount(stats.TotalEntries)) +
		dimStyle.Render(fmt.Sprintf("  on %d active days", stats.ActiveDays)) + "\n"

	// Trend sparkline
	content += labelStyle.Render("  Trend: ") + m.renderTrend() + "\n"

	// Category breakdown
	content += "\n" + sectionStyle.Render("┃ Categories") + "\n"
	if len(stats.Categories) == 0 {
		content += dimStyle.Render("  no entries yet") + "\n"
	}
	for i, cat := range stats.Categories {
		if i >= maxCategories {
			content += dimStyle.Render(fmt.Sprintf("  … %d more", len(stats.Categories)-maxCategories)) + "\n"
			break
		}
		content += labelStyle.Render(fmt.Sprintf("  %-12s ", cat.Category)) +
			m.categoryProgress.ViewAs(cat.Percent/100) +
			" " + valueStyle.Render(FormatMinutes(cat.Minutes)) +
			" " + dimStyle.Render(FormatPercent(cat.Percent)) + "\n"
	}

	// Goals
	content += "\n" + sectionStyle.Render("┃ Goals") + "\n"
	if len(m.snapshot.Goals) == 0 {
		content += dimStyle.Render("  no goals set") + "\n"
	}
	for _, g := range m.snapshot.Goals {
		badge := ""
		if g.ProgressPercentage >= 100 {
			badge = " " + doneStyle.Render("✓")
		}
		content += labelStyle.Render(fmt.Sprintf("  %-18s ", g.Title)) +
			m.goalProgress.ViewAs(g.ProgressPercentage/100) +
			" " + valueStyle.Render(FormatGoalProgress(g.CurrentProgress, g.Target)) +
			badge + "\n"
	}

	footer := footerKeyStyle.Render("[q]") + footerStyle.Render(" quit  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" refresh  ") +
		footerStyle.Render(fmt.Sprintf("Auto: %v", m.interval))
	content += "\n" + footer

	return containerStyle.Render(content)
}

// renderTrend draws the trailing daily-minute totals as a sparkline.
func (m Model) renderTrend() string {
	if len(m.snapshot.Trends) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, p := range m.snapshot.Trends {
		spark.Push(float64(p.Minutes))
	}
	return sparklineStyle.Render(spark.View())
}
