package home

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/consumption"
	"github.com/pichane/iquit-cli/internal/models"
)

var (
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 0).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(30).
			Align(lipgloss.Center)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type todayLoadedMsg struct {
	count int
}

type statsLoadedMsg struct {
	stats models.WeeklyStats
}

type logResultMsg struct {
	err error
}

// Model is the home screen: today's count against the daily goal, the two
// weekly averages, and the one-key consumption logger.
type Model struct {
	client consumption.Client
	prefs  models.UserPreferences
	debug  bool

	today      int
	stats      models.WeeklyStats
	logging    bool
	spinner    spinner.Model
	errMessage string
}

func New(client consumption.Client, prefs models.UserPreferences, debug bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		prefs:   prefs,
		debug:   debug,
		spinner: sp,
	}
}

// Init fetches today's count and the weekly stats in parallel. Both reads
// fail soft, so neither can block the screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadToday(), m.loadStats())
}

func (m Model) loadToday() tea.Cmd {
	client := m.client
	substance := m.prefs.TargetSubstance
	return func() tea.Msg {
		count, _ := client.TodayCount(context.Background(), substance)
		return todayLoadedMsg{count: count}
	}
}

func (m Model) loadStats() tea.Cmd {
	client := m.client
	substance := m.prefs.TargetSubstance
	return func() tea.Msg {
		stats, _ := client.WeeklyStats(context.Background(), substance)
		return statsLoadedMsg{stats: stats}
	}
}

// LogOne records a single consumption. Debug sessions increment the
// counter optimistically; live sessions wait for the server before
// refreshing today's count.
func (m Model) LogOne() (Model, tea.Cmd) {
	if m.logging {
		return m, nil
	}
	m.errMessage = ""

	client := m.client
	prefs := m.prefs
	logCmd := func() tea.Msg {
		err := client.LogConsumption(context.Background(), prefs.TargetSubstance, 1, prefs.UnitType, prefs.CostPerUnit)
		return logResultMsg{err: err}
	}

	if m.debug {
		m.today++
		return m, logCmd
	}

	m.logging = true
	return m, tea.Batch(m.spinner.Tick, logCmd)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todayLoadedMsg:
		m.today = msg.count
		return m, nil

	case statsLoadedMsg:
		m.stats = msg.stats
		return m, nil

	case logResultMsg:
		m.logging = false
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			return m, nil
		}
		if m.debug {
			// Counter was already bumped optimistically
			return m, nil
		}
		return m, m.loadToday()

	case spinner.TickMsg:
		if !m.logging {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "l", "+":
			return m.LogOne()
		case "r":
			return m, tea.Batch(m.loadToday(), m.loadStats())
		}
	}

	return m, nil
}

// TodayCount returns the displayed count for today.
func (m Model) TodayCount() int { return m.today }

// Stats returns the displayed weekly averages.
func (m Model) Stats() models.WeeklyStats { return m.stats }

func (m Model) View() string {
	header := fmt.Sprintf("%d %s today", m.today, m.prefs.UnitType)
	if m.logging {
		header += "  " + m.spinner.View()
	}

	goal := ""
	if m.prefs.DailyGoal > 0 {
		if float64(m.today) <= m.prefs.DailyGoal {
			goal = goodStyle.Render(fmt.Sprintf("within your goal of %.0f", m.prefs.DailyGoal))
		} else {
			goal = badStyle.Render(fmt.Sprintf("over your goal of %.0f", m.prefs.DailyGoal))
		}
	}

	trend := fmt.Sprintf("this week avg %.1f/day · last week %.1f/day", m.stats.Current, m.stats.Previous)

	saved := ""
	if delta := m.stats.Previous - m.stats.Current; delta > 0 && m.prefs.CostPerUnit > 0 {
		saved = goodStyle.Render(fmt.Sprintf("saving about %.2f per day", delta*m.prefs.CostPerUnit))
	}

	status := ""
	if m.errMessage != "" {
		status = badStyle.Render(m.errMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		countStyle.Render(header),
		goal,
		trend,
		saved,
		status,
		dimStyle.Render("l: log one · r: refresh"),
	)
}
