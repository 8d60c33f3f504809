// Package tui renders the read-only execution dashboard: today's mission,
// the weekly completion trend, the project cap, and the circuit breaker
// state. All mutations happen through the CLI commands; the dashboard only
// queries.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shipday/shipday/internal/breaker"
	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

// trendWeeks is how many weeks of completion history the chart shows.
const trendWeeks = 8

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	engine *metrics.Engine
	flag   *breaker.FlagStore
	width  int
	height int

	today      *store.DailyLog
	weeks      []metrics.WeekStats // oldest first
	paralysis  metrics.ParalysisStats
	decisions  metrics.DecisionStats
	projects   []store.Project
	evaluation metrics.Evaluation
	breakState *breaker.State

	chart    barchart.Model
	help     help.Model
	showHelp bool
	errText  string
}

func New(engine *metrics.Engine, flag *breaker.FlagStore) Model {
	h := help.New()
	h.ShowAll = false
	return Model{
		engine: engine,
		flag:   flag,
		chart:  barchart.New(60, 10),
		help:   h,
	}
}

type dashboardDataMsg struct {
	today      *store.DailyLog
	weeks      []metrics.WeekStats
	paralysis  metrics.ParalysisStats
	decisions  metrics.DecisionStats
	projects   []store.Project
	evaluation metrics.Evaluation
	breakState *breaker.State
	err        error
}

func (m Model) loadData() tea.Cmd {
	return func() tea.Msg {
		var msg dashboardDataMsg

		msg.today, msg.err = m.engine.TodayStatus()
		if msg.err != nil {
			return msg
		}
		for ago := trendWeeks - 1; ago >= 0; ago-- {
			ws, err := m.engine.WeekStats(ago)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.weeks = append(msg.weeks, ws)
		}
		if msg.paralysis, msg.err = m.engine.ParalysisRate(30); msg.err != nil {
			return msg
		}
		if msg.decisions, msg.err = m.engine.DecisionStats(30); msg.err != nil {
			return msg
		}
		if msg.projects, msg.err = m.engine.ActiveProjects(); msg.err != nil {
			return msg
		}
		if msg.evaluation, msg.err = m.engine.CheckBreaker(); msg.err != nil {
			return msg
		}
		msg.breakState, msg.err = m.flag.Read()
		return msg
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadData()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.buildChart()
		return m, nil

	case dashboardDataMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.today = msg.today
		m.weeks = msg.weeks
		m.paralysis = msg.paralysis
		m.decisions = msg.decisions
		m.projects = msg.projects
		m.evaluation = msg.evaluation
		m.breakState = msg.breakState
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m, m.loadData()
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 60
	}
	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, ws := range m.weeks {
		label := ws.WeekStart.Format("Jan 02")
		style := rateStyle(ws.CompletionRate)
		if ws.Total == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "completion", Value: ws.CompletionRate, Style: style},
			},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m Model) View() string {
	if m.width > 0 && m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4
	if w < 40 {
		w = 76
	}

	sections := []string{}
	if banner := m.renderBreakerBanner(w); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections,
		m.renderMissionPanel(w),
		m.renderWeekPanel(w),
		m.renderProjectsPanel(w),
	)
	if m.errText != "" {
		sections = append(sections, errorStyle.Render("  "+m.errText))
	}
	sections = append(sections, footerStyle.Render(m.help.View(keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBreakerBanner(w int) string {
	if m.breakState != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Bold(true).Render("CIRCUIT BREAKER ACTIVE"),
			"",
			fmt.Sprintf("Focus: %s", highlightStyle.Render(m.breakState.PrimaryProject)),
			fmt.Sprintf("External support: %s", m.breakState.ExternalContact),
			mutedStyle.Render(fmt.Sprintf("Since: %s", m.breakState.ActivatedAt.Local().Format("Jan 02 15:04"))),
		)
		return alertPanelStyle.Width(w).Render(content)
	}

	if m.evaluation.ShouldTrigger {
		rows := []string{warningStyle.Bold(true).Render("Circuit breaker conditions met"), ""}
		for _, r := range m.evaluation.Reasons {
			rows = append(rows, "  • "+r)
		}
		rows = append(rows, "", mutedStyle.Render("Run: shipday emergency activate"))
		return alertPanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}
	return ""
}

func (m Model) renderMissionPanel(w int) string {
	title := titleStyle.Render("Today")

	if m.today == nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			errorStyle.Render("No check-in yet"),
			mutedStyle.Render("Run: shipday checkin"),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	if m.today.Mission == "" {
		rows = append(rows, mutedStyle.Render("Checked in, no mission set"))
	} else {
		rows = append(rows, fmt.Sprintf("Mission: %s", highlightStyle.Render(m.today.Mission)))
		if m.today.DoneDefinition != "" {
			rows = append(rows, mutedStyle.Render("Done when: "+m.today.DoneDefinition))
		}
		if m.today.TargetTime != "" {
			rows = append(rows, mutedStyle.Render("Target: "+m.today.TargetTime))
		}
	}

	switch m.today.MissionStatus {
	case store.MissionShipped:
		rows = append(rows, successStyle.Render("✓ SHIPPED"))
	case store.MissionBlocked:
		rows = append(rows, errorStyle.Render("✗ BLOCKED ("+string(m.today.BlockerType)+")"))
	case store.MissionDeferred:
		rows = append(rows, warningStyle.Render("→ DEFERRED"))
	default:
		rows = append(rows, warningStyle.Render("● in progress"))
	}
	if m.today.ParalysisSignals {
		rows = append(rows, errorStyle.Render("Paralysis signals reported"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m Model) renderWeekPanel(w int) string {
	var current metrics.WeekStats
	if len(m.weeks) > 0 {
		current = m.weeks[len(m.weeks)-1]
	}

	trend := "↓"
	if current.Improving {
		trend = "↑"
	}
	header := fmt.Sprintf("%s  %d/%d shipped %s  %s",
		titleStyle.Render("This week"),
		current.Shipped, current.Total, trend,
		rateStyle(current.CompletionRate).Render(fmt.Sprintf("%.0f%%", current.CompletionRate)),
	)

	stats := mutedStyle.Render(fmt.Sprintf(
		"Paralysis 30d: %.0f%% (%d/%d)   Decisions 30d: %d, avg %.0fm, %.0f%% under 20m",
		m.paralysis.Rate, m.paralysis.ParalysisDays, m.paralysis.TotalDays,
		m.decisions.Total, m.decisions.AvgTimeToDecide, m.decisions.Under20MinRate,
	))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.chart.View(), "", stats),
	)
}

func (m Model) renderProjectsPanel(w int) string {
	header := fmt.Sprintf("%s  %d/%d",
		titleStyle.Render("Active projects"), len(m.projects), metrics.MaxActiveProjects)

	rows := []string{header}
	if len(m.projects) == 0 {
		rows = append(rows, mutedStyle.Render("No active projects"))
	}
	for _, p := range m.projects {
		deadline := mutedStyle.Render("no deadline")
		if days, ok := store.DaysRemaining(p, time.Now()); ok {
			switch {
			case days < 0:
				deadline = errorStyle.Render(fmt.Sprintf("%dd overdue", -days))
			case days <= 3:
				deadline = warningStyle.Render(fmt.Sprintf("%dd left", days))
			default:
				deadline = mutedStyle.Render(fmt.Sprintf("%dd left", days))
			}
		}
		rows = append(rows, fmt.Sprintf("  • %-30s %s", p.Name, deadline))
	}
	if len(m.projects) >= metrics.MaxActiveProjects {
		rows = append(rows, "", errorStyle.Render("At the hard cap — ship or kill before adding"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
