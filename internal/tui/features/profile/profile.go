package profile

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// LogoutRequestedMsg asks the parent to tear the session down.
type LogoutRequestedMsg struct{}

// OnboardingResetMsg tells the parent the onboarding flag was invalidated.
type OnboardingResetMsg struct{}

type connectivityMsg struct {
	ok bool
}

type mode int

const (
	modeView mode = iota
	modeEdit
	modeConfirmLogout
)

// editForm is the scratch copy backing the edit view. Cancel discards it by
// re-seeding from the persisted record; only a validated save writes it
// back.
type editForm struct {
	Substance   string
	DailyGoal   string
	UnitType    string
	CostPerUnit string
	QuitDate    string
}

type Model struct {
	session *session.Session
	baseURL string

	prefs      *models.UserPreferences
	email      string
	debug      bool
	mode       mode
	form       *huh.Form
	scratch    *editForm
	errMessage string
	infoLine   string
}

func New(sess *session.Session, baseURL string, prefs *models.UserPreferences) Model {
	return Model{
		session: sess,
		baseURL: baseURL,
		prefs:   prefs,
		email:   sess.Auth.CurrentUserEmail(),
		debug:   sess.Auth.IsDebugMode(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func newEditForm(scratch *editForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Substance").
				Options(huh.NewOptions(constants.Substances...)...).
				Value(&scratch.Substance),
			huh.NewInput().
				Title("Daily goal").
				Value(&scratch.DailyGoal),
			huh.NewInput().
				Title("Unit").
				Value(&scratch.UnitType),
			huh.NewInput().
				Title("Cost per unit").
				Value(&scratch.CostPerUnit),
			huh.NewInput().
				Title("Quit date (" + constants.DateFormat + ", blank for none)").
				Value(&scratch.QuitDate),
		),
	)
}

// StartEdit seeds the scratch copy from the persisted record and opens the
// form.
func (m Model) StartEdit() (Model, tea.Cmd) {
	if m.prefs == nil {
		m.errMessage = "no preferences to edit yet"
		return m, nil
	}
	m.scratch = m.seededScratch()
	m.form = newEditForm(m.scratch)
	m.mode = modeEdit
	m.errMessage = ""
	return m, m.form.Init()
}

func (m Model) seededScratch() *editForm {
	scratch := &editForm{}
	if m.prefs != nil {
		scratch.Substance = m.prefs.TargetSubstance
		scratch.DailyGoal = strconv.FormatFloat(m.prefs.DailyGoal, 'f', -1, 64)
		scratch.UnitType = m.prefs.UnitType
		scratch.CostPerUnit = strconv.FormatFloat(m.prefs.CostPerUnit, 'f', -1, 64)
		if m.prefs.QuitDate != nil {
			scratch.QuitDate = m.prefs.QuitDate.Format(constants.DateFormat)
		}
	}
	return scratch
}

// saveEdit validates every edited field and persists the update, keeping
// the record's identity. A validation failure surfaces a message and keeps
// the edit session open with the entered values so the user can correct
// the field; nothing is persisted.
func (m Model) saveEdit() (Model, tea.Cmd) {
	if strings.TrimSpace(m.scratch.Substance) == "" || strings.TrimSpace(m.scratch.UnitType) == "" {
		return m.rejectEdit()
	}

	dailyGoal, err := validation.ParsePositive("daily goal", m.scratch.DailyGoal)
	if err != nil {
		return m.rejectEdit()
	}

	costPerUnit, err := validation.ParseNonNegative("cost", m.scratch.CostPerUnit)
	if err != nil {
		return m.rejectEdit()
	}

	updated := *m.prefs
	updated.TargetSubstance = m.scratch.Substance
	updated.DailyGoal = dailyGoal
	updated.UnitType = strings.TrimSpace(m.scratch.UnitType)
	updated.CostPerUnit = costPerUnit
	updated.QuitDate = nil
	if raw := strings.TrimSpace(m.scratch.QuitDate); raw != "" {
		parsed, err := time.Parse(constants.DateFormat, raw)
		if err != nil {
			return m.rejectEdit()
		}
		updated.QuitDate = &parsed
	}

	if err := m.session.Store.SavePreferences(updated); err != nil {
		logger.Warn("Failed to save preferences", "error", err)
		m.errMessage = "failed to save profile"
		m.mode = modeView
		return m, nil
	}

	m.prefs = &updated
	m.errMessage = ""
	m.infoLine = okStyle.Render("profile saved")
	m.mode = modeView
	return m, nil
}

// rejectEdit re-opens the form over the same scratch copy so the entered
// values survive the validation failure.
func (m Model) rejectEdit() (Model, tea.Cmd) {
	m.errMessage = "please fill in all fields with valid values"
	m.mode = modeEdit
	m.form = newEditForm(m.scratch)
	return m, m.form.Init()
}

func (m Model) testConnection() tea.Cmd {
	baseURL := m.baseURL
	return func() tea.Msg {
		client := &http.Client{Timeout: 5 * time.Second}
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+"/consumption/today", nil)
		if err != nil {
			return connectivityMsg{ok: false}
		}
		resp, err := client.Do(req)
		if err != nil {
			return connectivityMsg{ok: false}
		}
		resp.Body.Close()
		return connectivityMsg{ok: true}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode == modeEdit {
		return m.updateEdit(msg)
	}
	if m.mode == modeConfirmLogout {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "y", "enter":
				m.mode = modeView
				return m, func() tea.Msg { return LogoutRequestedMsg{} }
			case "n", "esc":
				m.mode = modeView
				return m, nil
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case connectivityMsg:
		if msg.ok {
			m.infoLine = okStyle.Render("server reachable")
		} else {
			m.infoLine = errorStyle.Render("server unreachable")
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m.StartEdit()
		case "q":
			m.mode = modeConfirmLogout
			return m, nil
		case "t":
			m.infoLine = dimStyle.Render("checking server...")
			return m, m.testConnection()
		case "x":
			if err := m.session.ResetOnboarding(); err != nil {
				m.errMessage = "failed to reset onboarding"
				return m, nil
			}
			m.infoLine = okStyle.Render("onboarding reset")
			return m, func() tea.Msg { return OnboardingResetMsg{} }
		}
	}

	return m, nil
}

func (m Model) updateEdit(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		// Cancel: the scratch copy is discarded, nothing persists
		m.mode = modeView
		m.scratch = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		saved, saveCmd := m.saveEdit()
		return saved, tea.Batch(cmd, saveCmd)
	case huh.StateAborted:
		m.mode = modeView
		m.scratch = nil
	}
	return m, cmd
}

// Preferences exposes the currently displayed record.
func (m Model) Preferences() *models.UserPreferences { return m.prefs }

func (m Model) View() string {
	if m.mode == modeEdit && m.form != nil {
		if m.errMessage != "" {
			return lipgloss.JoinVertical(lipgloss.Left, m.form.View(), errorStyle.Render(m.errMessage))
		}
		return m.form.View()
	}
	if m.mode == modeConfirmLogout {
		return dangerStyle.Render("Log out?") + "\n\n" + dimStyle.Render("y: yes · n: no")
	}

	lines := []string{
		labelStyle.Render("email") + valueOr(m.email, "unknown"),
	}
	if m.debug {
		lines = append(lines, labelStyle.Render("mode")+"debug")
	}
	if m.prefs != nil {
		quit := "not set"
		if m.prefs.QuitDate != nil {
			quit = m.prefs.QuitDate.Format(constants.DateFormat)
		}
		lines = append(lines,
			labelStyle.Render("substance")+m.prefs.TargetSubstance,
			labelStyle.Render("daily goal")+fmt.Sprintf("%.0f %s", m.prefs.DailyGoal, m.prefs.UnitType),
			labelStyle.Render("cost/unit")+fmt.Sprintf("%.2f", m.prefs.CostPerUnit),
			labelStyle.Render("quit date")+quit,
		)
	} else {
		lines = append(lines, dimStyle.Render("no preferences saved yet"))
	}

	status := m.infoLine
	if m.errMessage != "" {
		status = errorStyle.Render(m.errMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Profile"),
		strings.Join(lines, "\n"),
		status,
		dimStyle.Render("e: edit · t: test server · x: reset onboarding · q: log out"),
	)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
