package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/consumption"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
	"github.com/pichane/iquit-cli/internal/tui/features/home"
	"github.com/pichane/iquit-cli/internal/tui/features/login"
	"github.com/pichane/iquit-cli/internal/tui/features/onboarding"
	"github.com/pichane/iquit-cli/internal/tui/features/profile"
	"github.com/pichane/iquit-cli/internal/tui/features/stats"
)

type routeResolvedMsg struct {
	route constants.Route
}

// Model is the root application model. It owns the route and delegates
// everything else to the feature model of the active screen. Each feature
// processes one message at a time; async work re-enters this loop as a
// message, so state is never written from a goroutine.
type Model struct {
	session *session.Session
	creds   *credentials.Store
	store   storage.Provider
	baseURL string

	route    constants.Route
	tab      constants.Tab
	spinner  spinner.Model
	keys     KeyMap
	help     help.Model
	quitting bool
	width    int
	height   int

	loginModel      login.Model
	onboardingModel onboarding.Model
	homeModel       home.Model
	statsModel      stats.Model
	profileModel    profile.Model
}

func NewModel(sess *session.Session, creds *credentials.Store, store storage.Provider, baseURL string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		session: sess,
		creds:   creds,
		store:   store,
		baseURL: baseURL,
		route:   constants.RouteLoading,
		spinner: sp,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	sess := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return routeResolvedMsg{route: sess.Bootstrap()}
	})
}

// enterRoute builds the feature models for the target route. The main
// screen gets a consumption client picked for the session mode at this
// moment, so a fresh debug login gets the mock client.
func (m Model) enterRoute(route constants.Route) (Model, tea.Cmd) {
	m.route = route

	switch route {
	case constants.RouteLogin:
		m.loginModel = login.New(m.session.Auth)
		return m, m.loginModel.Init()

	case constants.RouteOnboarding:
		m.onboardingModel = onboarding.New(m.session)
		return m, m.onboardingModel.Init()

	case constants.RouteMain:
		debug := m.session.Auth.IsDebugMode()
		client := consumption.New(m.creds, m.store, m.baseURL, nil)

		var prefs models.UserPreferences
		if p, err := m.session.Preferences(); err == nil && p != nil {
			prefs = *p
		}

		m.tab = constants.TabHome
		m.homeModel = home.New(client, prefs, debug)
		m.statsModel = stats.New(client, m.store, prefs, debug)
		m.profileModel = profile.New(m.session, m.baseURL, prefsPointer(prefs))
		return m, tea.Batch(m.homeModel.Init(), m.statsModel.Init(), m.profileModel.Init())
	}

	return m, nil
}

func prefsPointer(prefs models.UserPreferences) *models.UserPreferences {
	if prefs.ID == "" {
		return nil
	}
	p := prefs
	return &p
}
