// Package auth performs login, signup, and logout against the remote
// endpoint, or locally for the reserved debug account, and keeps the
// credential store in sync with the outcome.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/validation"
)

// Service is the auth client. Login and Signup decide between the local
// sentinel path and the remote endpoint; the synchronous getters read
// straight from the credential store.
type Service struct {
	creds   *credentials.Store
	baseURL string
	client  *http.Client
	delay   time.Duration
}

// NewService wires an auth service against the given base URL. A nil client
// falls back to a default with a 10s timeout.
func NewService(creds *credentials.Store, baseURL string, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{
		creds:   creds,
		baseURL: baseURL,
		client:  client,
		delay:   constants.DebugAuthDelay,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Login authenticates the user and returns whether the session is in debug
// mode.
func (s *Service) Login(ctx context.Context, email, password string) (bool, error) {
	return s.authenticate(ctx, email, password, false)
}

// Signup registers the user and returns whether the session is in debug
// mode.
func (s *Service) Signup(ctx context.Context, email, password string) (bool, error) {
	return s.authenticate(ctx, email, password, true)
}

func (s *Service) authenticate(ctx context.Context, email, password string, signup bool) (bool, error) {
	// Pre-validation never reaches the network
	if !validation.IsValidEmail(email) {
		return false, ErrInvalidEmail
	}
	if !validation.IsValidPassword(password) {
		return false, ErrPasswordTooShort
	}

	// The sentinel check must come before any network I/O so the debug
	// account works with no connectivity.
	if email == constants.DebugEmail {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
		err := s.creds.Set(models.Credentials{
			IsLoggedIn:  true,
			IsDebugMode: true,
			UserEmail:   email,
			AuthToken:   constants.DebugToken,
		})
		if err != nil {
			return false, fmt.Errorf("failed to store debug session: %w", err)
		}
		logger.Debug("Debug account authenticated locally")
		return true, nil
	}

	path := "/auth/login"
	payload := authRequest{Email: email, Password: password}
	if signup {
		path = "/auth/signup"
		payload.Username = validation.Username(email)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, ErrNetwork
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, ErrNetwork
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("Auth request failed", "path", path, "error", err)
		return false, ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.Debug("Auth rejected", "path", path, "status", resp.StatusCode)
		return false, ErrInvalidCredentials
	}

	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || decoded.Token == "" {
		logger.Warn("Auth response missing token", "path", path)
		return false, ErrNetwork
	}

	err = s.creds.Set(models.Credentials{
		IsLoggedIn:  true,
		IsDebugMode: false,
		UserEmail:   email,
		AuthToken:   decoded.Token,
	})
	if err != nil {
		return false, fmt.Errorf("failed to store session: %w", err)
	}
	return false, nil
}

// Logout clears the local session. The remote notification is best-effort;
// local logout always succeeds.
func (s *Service) Logout(ctx context.Context) {
	creds := s.creds.Get()
	if creds.IsLoggedIn && !creds.IsDebugMode && creds.AuthToken != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+creds.AuthToken)
			if resp, err := s.client.Do(req); err == nil {
				resp.Body.Close()
			} else {
				logger.Debug("Remote logout notification failed", "error", err)
			}
		}
	}
	if err := s.creds.Clear(); err != nil {
		logger.Warn("Failed to clear credentials", "error", err)
	}
}

// IsLoggedIn reads the login flag from the credential store.
func (s *Service) IsLoggedIn() bool {
	return s.creds.Get().IsLoggedIn
}

// IsDebugMode reads the debug flag from the credential store.
func (s *Service) IsDebugMode() bool {
	return s.creds.Get().IsDebugMode
}

// CurrentUserEmail returns the stored email, or "" when logged out.
func (s *Service) CurrentUserEmail() string {
	return s.creds.Get().UserEmail
}

// Token returns the stored bearer token, or "" when none is present.
func (s *Service) Token() string {
	return s.creds.Get().AuthToken
}

// SetDebugDelay overrides the simulated latency of the sentinel path.
// Tests set this to zero.
func (s *Service) SetDebugDelay(d time.Duration) {
	s.delay = d
}
