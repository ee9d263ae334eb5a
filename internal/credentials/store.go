// Package credentials owns the persisted session record: the logged-in and
// debug flags, the current user email, and the bearer token. No other
// component writes these keys directly.
package credentials

import (
	"errors"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/keyring"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

// Store persists credentials in the durable key-value store. The bearer
// token goes to the OS keyring when one is available, with the key-value
// store as fallback.
type Store struct {
	provider   storage.Provider
	useKeyring bool
}

// NewStore returns a credential store over the given provider, probing the
// OS keyring once at construction.
func NewStore(provider storage.Provider) *Store {
	return &Store{
		provider:   provider,
		useKeyring: keyring.IsAvailable(),
	}
}

// NewPlainStore returns a credential store that never touches the OS
// keyring. Used in tests and on systems without a secret service.
func NewPlainStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Get reads the current credentials. Storage errors degrade to the zero
// value, which callers treat as logged out.
func (s *Store) Get() models.Credentials {
	creds := models.Credentials{}

	loggedIn, err := s.provider.GetValue(constants.KeyIsLoggedIn)
	if err != nil {
		logger.Warn("Failed to read login flag", "error", err)
		return creds
	}
	creds.IsLoggedIn = loggedIn == "true"

	debug, _ := s.provider.GetValue(constants.KeyIsDebugMode)
	creds.IsDebugMode = debug == "true"

	creds.UserEmail, _ = s.provider.GetValue(constants.KeyUserEmail)
	creds.AuthToken = s.getToken()

	return creds
}

// Set replaces the stored credentials.
func (s *Store) Set(creds models.Credentials) error {
	if err := s.provider.SetValue(constants.KeyIsLoggedIn, formatBool(creds.IsLoggedIn)); err != nil {
		return err
	}
	if err := s.provider.SetValue(constants.KeyIsDebugMode, formatBool(creds.IsDebugMode)); err != nil {
		return err
	}
	if err := s.provider.SetValue(constants.KeyUserEmail, creds.UserEmail); err != nil {
		return err
	}
	return s.setToken(creds.AuthToken)
}

// Clear removes the entire credential record.
func (s *Store) Clear() error {
	for _, key := range []string{constants.KeyIsLoggedIn, constants.KeyIsDebugMode, constants.KeyUserEmail, constants.KeyAuthToken} {
		if err := s.provider.DeleteValue(key); err != nil {
			return err
		}
	}
	if s.useKeyring {
		if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to delete token from keyring", "error", err)
		}
	}
	return nil
}

func (s *Store) getToken() string {
	if s.useKeyring {
		token, err := keyring.GetToken()
		if err == nil {
			return token
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to read token from keyring", "error", err)
		}
	}
	token, _ := s.provider.GetValue(constants.KeyAuthToken)
	return token
}

func (s *Store) setToken(token string) error {
	if token == "" {
		return s.provider.DeleteValue(constants.KeyAuthToken)
	}
	if s.useKeyring {
		if err := keyring.SetToken(token); err == nil {
			// Make sure no stale copy lingers in the key-value store
			return s.provider.DeleteValue(constants.KeyAuthToken)
		}
		logger.Warn("Keyring write failed, falling back to local store")
	}
	return s.provider.SetValue(constants.KeyAuthToken, token)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
