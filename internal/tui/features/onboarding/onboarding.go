package onboarding

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

const finalStep = 4

// CompletedMsg is emitted to the parent once the preferences record has
// been persisted.
type CompletedMsg struct{}

type saveResultMsg struct {
	err error
}

// Model is the five-step onboarding wizard: substance, daily amount and
// unit, cost per unit, quit date, summary.
type Model struct {
	session *session.Session

	step           int
	substanceIndex int
	substance      string
	unitIndex      int
	unitType       string
	amountInput    textinput.Model
	costInput      textinput.Model
	quitDateInput  textinput.Model
	saving         bool
	errMessage     string
}

func New(sess *session.Session) Model {
	amount := textinput.New()
	amount.Placeholder = "daily amount"
	amount.CharLimit = 8

	cost := textinput.New()
	cost.Placeholder = "cost per unit"
	cost.CharLimit = 8

	quitDate := textinput.New()
	quitDate.Placeholder = constants.DateFormat + " (optional)"
	quitDate.CharLimit = 10

	return Model{
		session:       sess,
		amountInput:   amount,
		costInput:     cost,
		quitDateInput: quitDate,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Step returns the current zero-based step.
func (m Model) Step() int { return m.step }

// CanProceed reports whether the current step's required fields are filled:
// a substance at step 0, amount and unit at step 1, cost at step 2; the
// remaining steps have no requirements.
func (m Model) CanProceed() bool {
	switch m.step {
	case 0:
		return m.substance != ""
	case 1:
		return strings.TrimSpace(m.amountInput.Value()) != "" && m.unitType != ""
	case 2:
		return strings.TrimSpace(m.costInput.Value()) != ""
	case 3, finalStep:
		return true
	default:
		return false
	}
}

// Progress is the completed fraction of the wizard, for the progress bar.
func (m Model) Progress() float64 {
	return float64(m.step+1) / float64(finalStep+1)
}

// SelectSubstance sets the target substance and defaults the unit to the
// first one registered for it.
func (m *Model) SelectSubstance(substance string) {
	m.substance = substance
	m.unitIndex = 0
	if units, ok := constants.SubstanceUnits[substance]; ok && len(units) > 0 {
		m.unitType = units[0]
	}
}

// SetDailyAmount seeds the daily amount field.
func (m *Model) SetDailyAmount(s string) { m.amountInput.SetValue(s) }

// SetUnitType overrides the unit selection.
func (m *Model) SetUnitType(s string) { m.unitType = s }

// SetCost seeds the cost field.
func (m *Model) SetCost(s string) { m.costInput.SetValue(s) }

// SetQuitDate seeds the quit date field (YYYY-MM-DD).
func (m *Model) SetQuitDate(s string) { m.quitDateInput.SetValue(s) }

// Next advances one step when the current step is satisfied. On the final
// step it triggers completion instead.
func (m Model) Next() (Model, tea.Cmd) {
	if !m.CanProceed() {
		return m, nil
	}
	if m.step == finalStep {
		return m.Complete()
	}
	m.step++
	m.errMessage = ""
	m.syncFocus()
	return m, nil
}

// Back steps backwards, never below the first step.
func (m Model) Back() Model {
	if m.step > 0 {
		m.step--
		m.errMessage = ""
		m.syncFocus()
	}
	return m
}

// Complete validates the collected fields and persists the preferences
// record. On a validation failure the specific message is surfaced and the
// wizard does not advance.
func (m Model) Complete() (Model, tea.Cmd) {
	if m.substance == "" {
		m.errMessage = "please select a substance"
		return m, nil
	}

	dailyGoal, err := validation.ParsePositive("daily amount", m.amountInput.Value())
	if err != nil {
		m.errMessage = err.Error()
		return m, nil
	}

	costPerUnit, err := validation.ParseNonNegative("cost", m.costInput.Value())
	if err != nil {
		m.errMessage = err.Error()
		return m, nil
	}

	var quitDate *time.Time
	if raw := strings.TrimSpace(m.quitDateInput.Value()); raw != "" {
		parsed, err := time.Parse(constants.DateFormat, raw)
		if err != nil {
			m.errMessage = "please enter the quit date as " + constants.DateFormat
			return m, nil
		}
		quitDate = &parsed
	}

	prefs := models.NewUserPreferences(m.session.Auth.CurrentUserEmail())
	prefs.TargetSubstance = m.substance
	prefs.DailyGoal = dailyGoal
	prefs.UnitType = m.unitType
	prefs.CostPerUnit = costPerUnit
	prefs.QuitDate = quitDate
	prefs.IsDebugMode = m.session.Auth.IsDebugMode()

	m.saving = true
	m.errMessage = ""

	sess := m.session
	return m, func() tea.Msg {
		return saveResultMsg{err: sess.CompleteOnboarding(prefs)}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveResultMsg:
		m.saving = false
		if msg.err != nil {
			m.errMessage = "failed to save preferences"
			return m, nil
		}
		return m, func() tea.Msg { return CompletedMsg{} }

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.Next()
		case tea.KeyLeft:
			if m.step == 1 {
				m.cycleUnit(-1)
				return m, nil
			}
			return m.Back(), nil
		case tea.KeyRight:
			if m.step == 1 {
				m.cycleUnit(1)
				return m, nil
			}
		case tea.KeyUp, tea.KeyDown:
			if m.step == 0 {
				delta := 1
				if msg.Type == tea.KeyUp {
					delta = -1
				}
				m.substanceIndex = (m.substanceIndex + delta + len(constants.Substances)) % len(constants.Substances)
				m.SelectSubstance(constants.Substances[m.substanceIndex])
				return m, nil
			}
		case tea.KeyEsc:
			return m.Back(), nil
		}
	}

	var cmd tea.Cmd
	switch m.step {
	case 1:
		m.amountInput, cmd = m.amountInput.Update(msg)
	case 2:
		m.costInput, cmd = m.costInput.Update(msg)
	case 3:
		m.quitDateInput, cmd = m.quitDateInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleUnit(delta int) {
	units := constants.SubstanceUnits[m.substance]
	if len(units) == 0 {
		return
	}
	m.unitIndex = (m.unitIndex + delta + len(units)) % len(units)
	m.unitType = units[m.unitIndex]
}

func (m *Model) syncFocus() {
	m.amountInput.Blur()
	m.costInput.Blur()
	m.quitDateInput.Blur()
	switch m.step {
	case 1:
		m.amountInput.Focus()
	case 2:
		m.costInput.Focus()
	case 3:
		m.quitDateInput.Focus()
	}
}

func (m Model) View() string {
	var body string

	switch m.step {
	case 0:
		var lines []string
		for i, s := range constants.Substances {
			if i == m.substanceIndex && m.substance == s {
				lines = append(lines, selectedStyle.Render("> "+s))
			} else {
				lines = append(lines, "  "+s)
			}
		}
		body = "What habit do you want to reduce?\n\n" + strings.Join(lines, "\n")
	case 1:
		body = fmt.Sprintf("How much %s per day?\n\n%s\n\nunit: %s  (left/right to change)",
			m.substance, m.amountInput.View(), selectedStyle.Render(m.unitType))
	case 2:
		body = fmt.Sprintf("What does one %s cost?\n\n%s", m.unitType, m.costInput.View())
	case 3:
		body = "When did you quit, or when will you?\n\n" + m.quitDateInput.View()
	case finalStep:
		body = fmt.Sprintf("Target: %s\nDaily goal: %s %s\nCost: %s per %s\nQuit date: %s\n\nPress enter to finish.",
			m.substance, m.amountInput.Value(), m.unitType, m.costInput.Value(), m.unitType, valueOr(m.quitDateInput.Value(), "not set"))
	}

	status := ""
	if m.saving {
		status = dimStyle.Render("saving...")
	} else if m.errMessage != "" {
		status = errorStyle.Render(m.errMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Setup (%d/%d)", m.step+1, finalStep+1)),
		body,
		status,
		dimStyle.Render("enter: next · esc: back"),
	)
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
