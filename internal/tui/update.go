package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/tui/features/login"
	"github.com/pichane/iquit-cli/internal/tui/features/onboarding"
	"github.com/pichane/iquit-cli/internal/tui/features/profile"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case routeResolvedMsg:
		return m.enterRoute(msg.route)

	case login.AuthenticatedMsg:
		return m.enterRoute(m.session.RouteAfterLogin(msg.Debug))

	case onboarding.CompletedMsg:
		return m.enterRoute(constants.RouteMain)

	case profile.LogoutRequestedMsg:
		// In-flight fetches are not cancelled; their results land in a
		// model that has already moved on and are dropped.
		return m.enterRoute(m.session.Logout(context.Background()))

	case profile.OnboardingResetMsg:
		if !m.session.Auth.IsDebugMode() {
			return m.enterRoute(constants.RouteOnboarding)
		}
		return m, nil
	}

	switch m.route {
	case constants.RouteLoading:
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tick)
			return m, cmd
		}
		return m, nil

	case constants.RouteLogin:
		var cmd tea.Cmd
		m.loginModel, cmd = m.loginModel.Update(msg)
		return m, cmd

	case constants.RouteOnboarding:
		var cmd tea.Cmd
		m.onboardingModel, cmd = m.onboardingModel.Update(msg)
		return m, cmd

	case constants.RouteMain:
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.TabHome):
			m.tab = constants.TabHome
			return m, nil
		case key.Matches(keyMsg, m.keys.TabStats):
			m.tab = constants.TabStats
			return m, nil
		case key.Matches(keyMsg, m.keys.TabProfile):
			m.tab = constants.TabProfile
			return m, nil
		}

		// Key input goes to the active tab only
		var cmd tea.Cmd
		switch m.tab {
		case constants.TabHome:
			m.homeModel, cmd = m.homeModel.Update(msg)
		case constants.TabStats:
			m.statsModel, cmd = m.statsModel.Update(msg)
		case constants.TabProfile:
			m.profileModel, cmd = m.profileModel.Update(msg)
		}
		return m, cmd
	}

	// Everything else (async results, ticks) is fanned out so background
	// tabs keep their data fresh
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.homeModel, cmd = m.homeModel.Update(msg)
	cmds = append(cmds, cmd)
	m.statsModel, cmd = m.statsModel.Update(msg)
	cmds = append(cmds, cmd)
	m.profileModel, cmd = m.profileModel.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
