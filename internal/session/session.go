// Package session owns the top-level route decision: login, onboarding, or
// the main screen. The route is derived from the credential flags and the
// onboarding-completed flag at explicit transition points (app start, login
// success, onboarding completion, logout), never reactively.
package session

import (
	"context"
	"fmt"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

// Resolve maps the session flags to a route. Debug accounts skip
// onboarding.
func Resolve(loggedIn, debugMode, onboardingCompleted bool) constants.Route {
	if !loggedIn {
		return constants.RouteLogin
	}
	if debugMode {
		return constants.RouteMain
	}
	if onboardingCompleted {
		return constants.RouteMain
	}
	return constants.RouteOnboarding
}

// Session composes the auth service and the preference cache into the
// startup and transition logic.
type Session struct {
	Auth  *auth.Service
	Store storage.Provider
}

func New(authSvc *auth.Service, store storage.Provider) *Session {
	return &Session{
		Auth:  authSvc,
		Store: store,
	}
}

// Bootstrap performs the app-start check and returns the initial route.
func (s *Session) Bootstrap() constants.Route {
	loggedIn := s.Auth.IsLoggedIn()
	debug := s.Auth.IsDebugMode()
	route := Resolve(loggedIn, debug, s.onboardingCompleted())
	logger.Debug("Session bootstrapped", "logged_in", loggedIn, "debug", debug, "route", route)
	return route
}

// RouteAfterLogin is the transition taken on a successful login or signup.
func (s *Session) RouteAfterLogin(debugMode bool) constants.Route {
	if debugMode {
		return constants.RouteMain
	}
	if s.onboardingCompleted() {
		return constants.RouteMain
	}
	return constants.RouteOnboarding
}

// CompleteOnboarding persists the preferences record and marks onboarding
// done. The route after a successful completion is always Main.
func (s *Session) CompleteOnboarding(prefs models.UserPreferences) error {
	prefs.OnboardingCompleted = true
	if err := s.Store.SavePreferences(prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	if err := s.Store.SetValue(constants.KeyOnboardingCompleted, "true"); err != nil {
		return fmt.Errorf("failed to record onboarding completion: %w", err)
	}
	return nil
}

// ResetOnboarding invalidates the onboarding flag. Debug sessions keep the
// preference record (it is canned data anyway); live sessions drop it so
// the wizard starts clean.
func (s *Session) ResetOnboarding() error {
	if err := s.Store.DeleteValue(constants.KeyOnboardingCompleted); err != nil {
		return err
	}
	if !s.Auth.IsDebugMode() {
		return s.Store.ClearPreferences()
	}
	return nil
}

// Logout clears the session and returns the login route.
func (s *Session) Logout(ctx context.Context) constants.Route {
	s.Auth.Logout(ctx)
	return constants.RouteLogin
}

// Preferences loads the cached record. Debug sessions with no record fall
// back to the canned debug preferences.
func (s *Session) Preferences() (*models.UserPreferences, error) {
	prefs, err := s.Store.LoadPreferences()
	if err != nil {
		return nil, err
	}
	if prefs == nil && s.Auth.IsDebugMode() {
		debug := models.DebugPreferences()
		return &debug, nil
	}
	return prefs, nil
}

func (s *Session) onboardingCompleted() bool {
	v, err := s.Store.GetValue(constants.KeyOnboardingCompleted)
	if err != nil {
		logger.Warn("Failed to read onboarding flag", "error", err)
		return false
	}
	return v == "true"
}
