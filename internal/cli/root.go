package cli

import (
	"fmt"

	"github.com/pichane/iquit-cli/internal/consumption"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
)

type Context struct {
	Session *session.Session
	Creds   *credentials.Store
	Store   storage.Provider
	BaseURL string
}

// Consumption builds a client for the current session mode. Picked per
// invocation so a debug login always gets the simulated backend.
func (c *Context) Consumption() consumption.Client {
	return consumption.New(c.Creds, c.Store, c.BaseURL, nil)
}

// RequireLogin guards commands that need an authenticated session.
func (c *Context) RequireLogin() error {
	if !c.Session.Auth.IsLoggedIn() {
		return fmt.Errorf("not logged in (run 'iquit login' first)")
	}
	return nil
}

// Prefs returns the active preference record, or an error when onboarding
// has not produced one yet.
func (c *Context) Prefs() (*models.UserPreferences, error) {
	prefs, err := c.Session.Preferences()
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, fmt.Errorf("no preferences found (complete onboarding in 'iquit tui' first)")
	}
	return prefs, nil
}
