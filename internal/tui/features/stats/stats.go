package stats

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/consumption"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0)

	activePeriodStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
)

// Period selects the aggregation window of the daily series.
type Period int

const (
	PeriodWeek Period = iota
	PeriodMonth
	PeriodYear
)

func (p Period) String() string {
	switch p {
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	default:
		return "year"
	}
}

func (p Period) days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 365
	}
}

type loadedMsg struct {
	weekly models.WeeklyStats
	series []models.DayCount
}

// Model is the statistics screen: a daily-count series over the selected
// period plus the derived weekly averages and money metrics. All reads are
// fail-soft; the screen renders zeros rather than an error state.
type Model struct {
	client consumption.Client
	store  storage.Provider
	prefs  models.UserPreferences
	debug  bool

	period Period
	weekly models.WeeklyStats
	series []models.DayCount
}

func New(client consumption.Client, store storage.Provider, prefs models.UserPreferences, debug bool) Model {
	return Model{
		client: client,
		store:  store,
		prefs:  prefs,
		debug:  debug,
		period: PeriodWeek,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	client := m.client
	store := m.store
	substance := m.prefs.TargetSubstance
	debug := m.debug
	days := m.period.days()

	return func() tea.Msg {
		weekly, _ := client.WeeklyStats(context.Background(), substance)
		if debug {
			return loadedMsg{weekly: weekly, series: mockSeries(days)}
		}
		return loadedMsg{weekly: weekly, series: localSeries(store, substance, days)}
	}
}

// mockSeries synthesizes a daily series for debug sessions.
func mockSeries(days int) []models.DayCount {
	series := make([]models.DayCount, days)
	for i := range series {
		day := time.Now().AddDate(0, 0, i-days+1)
		series[i] = models.DayCount{
			Date:  day.Format(constants.DateFormat),
			Count: constants.MockTodayMin + rand.IntN(constants.MockTodayMax-constants.MockTodayMin+1),
		}
	}
	return series
}

// localSeries builds the daily series from the locally mirrored events.
func localSeries(store storage.Provider, substance string, days int) []models.DayCount {
	since := time.Now().AddDate(0, 0, -days+1)
	events, err := store.GetEventsSince(time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location()))
	if err != nil {
		return nil
	}

	counts := make(map[string]int)
	for _, e := range events {
		if e.SubstanceType == substance {
			counts[e.Timestamp.Format(constants.DateFormat)]++
		}
	}

	series := make([]models.DayCount, days)
	for i := range series {
		day := time.Now().AddDate(0, 0, i-days+1).Format(constants.DateFormat)
		series[i] = models.DayCount{Date: day, Count: counts[day]}
	}
	return series
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.weekly = msg.weekly
		m.series = msg.series
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.period = (m.period + 1) % 3
			return m, m.load()
		case "r":
			return m, m.load()
		}
	}

	return m, nil
}

// DaysSinceQuit returns the whole days elapsed since the quit date, or 0
// when none is set.
func (m Model) DaysSinceQuit() int {
	if m.prefs.QuitDate == nil {
		return 0
	}
	days := int(time.Since(*m.prefs.QuitDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MoneySaved estimates savings from the drop between the previous and
// current weekly averages.
func (m Model) MoneySaved() float64 {
	delta := m.weekly.Previous - m.weekly.Current
	if delta <= 0 {
		return 0
	}
	return delta * m.prefs.CostPerUnit * 7
}

func (m Model) View() string {
	var periods []string
	for p := PeriodWeek; p <= PeriodYear; p++ {
		label := p.String()
		if p == m.period {
			label = activePeriodStyle.Render("[" + label + "]")
		} else {
			label = dimStyle.Render(label)
		}
		periods = append(periods, label)
	}

	var rows []string
	series := m.series
	if len(series) > 14 {
		series = series[len(series)-14:]
	}
	for _, d := range series {
		rows = append(rows, fmt.Sprintf("%s %s %d", dimStyle.Render(d.Date), barStyle.Render(strings.Repeat("█", d.Count)), d.Count))
	}

	summary := fmt.Sprintf("this week avg %.1f/day · last week %.1f/day", m.weekly.Current, m.weekly.Previous)
	if days := m.DaysSinceQuit(); days > 0 {
		summary += fmt.Sprintf("\n%d days since quit date", days)
	}
	if saved := m.MoneySaved(); saved > 0 {
		summary += fmt.Sprintf("\nabout %.2f saved this week", saved)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Statistics"),
		strings.Join(periods, " "),
		strings.Join(rows, "\n"),
		summary,
		dimStyle.Render("p: period · r: refresh"),
	)
}
