package login

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// AuthenticatedMsg is emitted to the parent when login or signup succeeds.
type AuthenticatedMsg struct {
	Debug bool
}

type authResultMsg struct {
	debug bool
	err   error
}

type field int

const (
	fieldEmail field = iota
	fieldPassword
)

type Model struct {
	auth       *auth.Service
	email      textinput.Model
	password   textinput.Model
	focused    field
	signupMode bool
	loading    bool
	spinner    spinner.Model
	errMessage string
}

func New(authSvc *auth.Service) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		auth:     authSvc,
		email:    email,
		password: password,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// CanSubmit reports whether a submission is possible: both fields present
// and no request in flight.
func (m Model) CanSubmit() bool {
	return m.email.Value() != "" && m.password.Value() != "" && !m.loading
}

// Submit runs client-side pre-validation and, if it passes, dispatches the
// auth call. Validation failures surface as field messages without any I/O.
func (m Model) Submit() (Model, tea.Cmd) {
	if !m.CanSubmit() {
		return m, nil
	}

	email := m.email.Value()
	password := m.password.Value()

	if !validation.IsValidEmail(email) {
		m.errMessage = auth.ErrInvalidEmail.Error()
		return m, nil
	}
	if !validation.IsValidPassword(password) {
		m.errMessage = auth.ErrPasswordTooShort.Error()
		return m, nil
	}

	m.loading = true
	m.errMessage = ""

	signup := m.signupMode
	authSvc := m.auth
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		var (
			debug bool
			err   error
		)
		if signup {
			debug, err = authSvc.Signup(context.Background(), email, password)
		} else {
			debug, err = authSvc.Login(context.Background(), email, password)
		}
		return authResultMsg{debug: debug, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			return m, nil
		}
		debug := msg.debug
		return m, func() tea.Msg { return AuthenticatedMsg{Debug: debug} }

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			return m.Submit()
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.toggleFocus()
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			m.signupMode = !m.signupMode
			m.errMessage = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focused == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	// Typing clears a stale error message
	if _, ok := msg.(tea.KeyMsg); ok {
		m.errMessage = ""
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focused == fieldEmail {
		m.focused = fieldPassword
		m.email.Blur()
		m.password.Focus()
	} else {
		m.focused = fieldEmail
		m.password.Blur()
		m.email.Focus()
	}
}

func (m Model) View() string {
	title := "Sign In"
	toggle := "ctrl+s: switch to sign up"
	if m.signupMode {
		title = "Sign Up"
		toggle = "ctrl+s: switch to sign in"
	}

	status := ""
	if m.loading {
		status = m.spinner.View() + " authenticating..."
	} else if m.errMessage != "" {
		status = errorStyle.Render(m.errMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		m.email.View(),
		m.password.View(),
		status,
		hintStyle.Render(toggle+" · enter: submit"),
	)
}

// SignupMode reports whether the form is in signup mode.
func (m Model) SignupMode() bool { return m.signupMode }

// ErrorMessage returns the current field-level error, if any.
func (m Model) ErrorMessage() string { return m.errMessage }

// SetEmail and SetPassword seed the fields, used by tests and by the
// login command's interactive fallback.
func (m *Model) SetEmail(s string)    { m.email.SetValue(s) }
func (m *Model) SetPassword(s string) { m.password.SetValue(s) }
