package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pichane/iquit-cli/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.route {
	case constants.RouteLoading:
		content = m.spinner.View() + " checking session..."
	case constants.RouteLogin:
		content = m.loginModel.View()
	case constants.RouteOnboarding:
		content = m.onboardingModel.View()
	case constants.RouteMain:
		switch m.tab {
		case constants.TabHome:
			content = m.homeModel.View()
		case constants.TabStats:
			content = m.statsModel.View()
		case constants.TabProfile:
			content = m.profileModel.View()
		}
		content = lipgloss.JoinVertical(lipgloss.Left, m.viewTabs(), content)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.help.View(m.keys),
	))
}

func (m Model) viewTabs() string {
	tabs := []struct {
		tab   constants.Tab
		label string
	}{
		{constants.TabHome, "Home"},
		{constants.TabStats, "Stats"},
		{constants.TabProfile, "Profile"},
	}

	var rendered []string
	for _, t := range tabs {
		if t.tab == m.tab {
			rendered = append(rendered, activeTabStyle.Render(t.label))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
