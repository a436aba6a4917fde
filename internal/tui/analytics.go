package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cadence/internal/analytics"
	"github.com/sadopc/cadence/internal/store"
)

type analyticsSection int

const (
	sectionTrend analyticsSection = iota
	sectionHeatmap
	sectionCorrelations
	sectionGroups
)

// analyticsModel renders the insight views: trend, weekday chart,
// completion heatmap, habit correlations and category groups.
type analyticsModel struct {
	store  *store.Store
	width  int
	height int

	section analyticsSection

	trend        analytics.TrendResult
	patterns     []analytics.WeekdayPattern
	correlations []analytics.Correlation
	heatmap      []analytics.HeatmapDay
	groups       []analytics.CategoryGroup
	loaded       bool

	chart barchart.Model
}

func newAnalyticsModel(s *store.Store) analyticsModel {
	return analyticsModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (m *analyticsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m analyticsModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		habits, err := s.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		now := time.Now()
		return analyticsDataMsg{
			trend:        analytics.Trend(habits, now),
			patterns:     analytics.WeekdayPatterns(habits),
			correlations: analytics.Correlations(habits),
			heatmap:      analytics.Heatmap(habits, now.Year()),
			groups:       analytics.DependencyGroups(habits),
		}
	}
}

func (m analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		m.trend = msg.trend
		m.patterns = msg.patterns
		m.correlations = msg.correlations
		m.heatmap = msg.heatmap
		m.groups = msg.groups
		m.loaded = true
		m.rebuildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.section > sectionTrend {
				m.section--
			}
		case key.Matches(msg, keys.Right):
			if m.section < sectionGroups {
				m.section++
			}
		}
	}
	return m, nil
}

func (m *analyticsModel) rebuildChart() {
	chartWidth := m.width - 8
	if chartWidth < 30 {
		chartWidth = 30
	}
	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, p := range m.patterns {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if p.Rate < 0.5 {
			style = lipgloss.NewStyle().Foreground(colorAccent)
		}
		bars = append(bars, barchart.BarData{
			Label: p.Weekday.String()[:3],
			Values: []barchart.BarValue{
				{Name: p.Weekday.String(), Value: p.Rate * 100, Style: style},
			},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m analyticsModel) view() string {
	if !m.loaded {
		return mutedStyle.Render("  Loading...")
	}

	tabs := m.renderSectionTabs()

	var body string
	switch m.section {
	case sectionTrend:
		body = m.viewTrend()
	case sectionHeatmap:
		body = m.viewHeatmap()
	case sectionCorrelations:
		body = m.viewCorrelations()
	case sectionGroups:
		body = m.viewGroups()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", body)
}

func (m analyticsModel) renderSectionTabs() string {
	names := []string{"Trend", "Heatmap", "Correlations", "Groups"}
	var parts []string
	for i, n := range names {
		if analyticsSection(i) == m.section {
			parts = append(parts, activeTabStyle.Render(n))
		} else {
			parts = append(parts, inactiveTabStyle.Render(n))
		}
	}
	hint := mutedStyle.Render("  ←/→ switch")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, append(parts, hint)...)
}

func (m analyticsModel) viewTrend() string {
	var rows []string

	dir := string(m.trend.Direction)
	var dirStyled string
	switch m.trend.Direction {
	case analytics.DirectionImproving:
		dirStyled = successStyle.Render("↑ " + dir)
	case analytics.DirectionDeclining:
		dirStyled = errorStyle.Render("↓ " + dir)
	default:
		dirStyled = mutedStyle.Render("→ " + dir)
	}

	rows = append(rows, titleStyle.Render("  4-Week Trend"))
	rows = append(rows, fmt.Sprintf("  Recent: %.0f%%   Prior: %.0f%%   Change: %+.1f%%   %s",
		m.trend.RecentRate*100, m.trend.PriorRate*100, m.trend.ChangePct, dirStyled))
	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("  Completion by Weekday"))
	rows = append(rows, m.chart.View())

	for _, p := range m.patterns {
		if p.Best == nil {
			continue
		}
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s: best %s (%.0f%%), worst %s (%.0f%%)",
			p.Weekday, p.Best.Name, p.Best.Rate*100, p.Worst.Name, p.Worst.Rate*100)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// viewHeatmap draws the year as week columns, one colored cell per day.
func (m analyticsModel) viewHeatmap() string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %d Completion Heatmap", time.Now().Year())))
	rows = append(rows, "")

	byDay := make(map[string]analytics.HeatmapDay, len(m.heatmap))
	for _, d := range m.heatmap {
		byDay[d.Day] = d
	}

	year := time.Now().Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	// Align to the Monday on or before Jan 1.
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	weeks := (m.width - 6) / 2
	if weeks > 53 {
		weeks = 53
	}
	if weeks < 10 {
		weeks = 10
	}

	for wd := 0; wd < 7; wd++ {
		var cells []string
		label := "   "
		switch wd {
		case 0:
			label = "Mon"
		case 2:
			label = "Wed"
		case 4:
			label = "Fri"
		}
		cells = append(cells, mutedStyle.Render("  "+label+" "))
		for w := 0; w < weeks; w++ {
			day := start.AddDate(0, 0, w*7+wd)
			level := 0
			if d, ok := byDay[store.DayKey(day)]; ok {
				level = d.Level
			}
			cell := lipgloss.NewStyle().Foreground(heatColors[level]).Render("■ ")
			cells = append(cells, cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var legend []string
	legend = append(legend, mutedStyle.Render("      less "))
	for _, c := range heatColors {
		legend = append(legend, lipgloss.NewStyle().Foreground(c).Render("■ "))
	}
	legend = append(legend, mutedStyle.Render("more"))
	rows = append(rows, "")
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, legend...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m analyticsModel) viewCorrelations() string {
	var rows []string
	rows = append(rows, titleStyle.Render("  Habit Correlations"))
	rows = append(rows, "")

	if len(m.correlations) == 0 {
		rows = append(rows, mutedStyle.Render("  Not enough shared history yet (needs 7+ common days)."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	for _, c := range m.correlations {
		style := successStyle
		link := "together"
		if c.Coefficient < 0 {
			style = warningStyle
			link = "opposed"
		}
		rows = append(rows, fmt.Sprintf("  %s %s",
			style.Render(fmt.Sprintf("%+.2f", c.Coefficient)),
			fmt.Sprintf("%s ↔ %s  (%s, n=%d)", c.NameA, c.NameB, link, c.SampleSize)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m analyticsModel) viewGroups() string {
	var rows []string
	rows = append(rows, titleStyle.Render("  Category Groups"))
	rows = append(rows, "")

	if len(m.groups) == 0 {
		rows = append(rows, mutedStyle.Render("  Not enough history yet (needs 7+ recorded days per category)."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	for _, g := range m.groups {
		rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %s (%d habits)", g.Category, len(g.HabitIDs))))
		rows = append(rows, fmt.Sprintf("    failure days: %d/%d (%.0f%%)", g.FailureDays, g.Days, g.FailureRate*100))
		if g.Strongest != nil {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    strongest: %s (%.0f%%)", g.Strongest.Name, g.Strongest.Rate*100)))
		}
		if g.Weakest != nil {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    weakest:   %s (%.0f%%)", g.Weakest.Name, g.Weakest.Rate*100)))
		}
		rows = append(rows, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
