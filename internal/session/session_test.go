package session_test

import (
	"testing"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name                string
		loggedIn            bool
		debug               bool
		onboardingCompleted bool
		want                constants.Route
	}{
		{"logged out", false, false, false, constants.RouteLogin},
		{"logged out with stale flags", false, true, true, constants.RouteLogin},
		{"debug session skips onboarding", true, true, false, constants.RouteMain},
		{"live session, onboarding done", true, false, true, constants.RouteMain},
		{"live session, onboarding pending", true, false, false, constants.RouteOnboarding},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := session.Resolve(tc.loggedIn, tc.debug, tc.onboardingCompleted)
			if got != tc.want {
				t.Errorf("Resolve(%v, %v, %v) = %v, want %v",
					tc.loggedIn, tc.debug, tc.onboardingCompleted, got, tc.want)
			}
		})
	}
}

func newTestSession(t *testing.T, c models.Credentials) (*session.Session, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	creds := credentials.NewPlainStore(store)
	if c.UserEmail != "" || c.IsLoggedIn {
		if err := creds.Set(c); err != nil {
			t.Fatalf("Set credentials failed: %v", err)
		}
	}
	return session.New(auth.NewService(creds, "http://localhost:5002", nil), store), store
}

func TestBootstrap(t *testing.T) {
	t.Run("fresh store routes to login", func(t *testing.T) {
		sess, _ := newTestSession(t, models.Credentials{})
		if got := sess.Bootstrap(); got != constants.RouteLogin {
			t.Errorf("Bootstrap = %v, want RouteLogin", got)
		}
	})

	t.Run("debug session routes straight to main", func(t *testing.T) {
		sess, _ := newTestSession(t, models.Credentials{
			IsLoggedIn: true, IsDebugMode: true, UserEmail: constants.DebugEmail,
		})
		if got := sess.Bootstrap(); got != constants.RouteMain {
			t.Errorf("Bootstrap = %v, want RouteMain", got)
		}
	})

	t.Run("live session without onboarding routes to onboarding", func(t *testing.T) {
		sess, _ := newTestSession(t, models.Credentials{
			IsLoggedIn: true, UserEmail: "alice@example.com",
		})
		if got := sess.Bootstrap(); got != constants.RouteOnboarding {
			t.Errorf("Bootstrap = %v, want RouteOnboarding", got)
		}
	})
}

func TestCompleteOnboarding(t *testing.T) {
	sess, store := newTestSession(t, models.Credentials{
		IsLoggedIn: true, UserEmail: "alice@example.com",
	})

	prefs := models.NewUserPreferences("alice@example.com")
	prefs.TargetSubstance = "coffee"
	prefs.DailyGoal = 2
	if err := sess.CompleteOnboarding(prefs); err != nil {
		t.Fatalf("CompleteOnboarding failed: %v", err)
	}

	if got := sess.Bootstrap(); got != constants.RouteMain {
		t.Errorf("Bootstrap after onboarding = %v, want RouteMain", got)
	}

	saved, err := store.LoadPreferences()
	if err != nil || saved == nil {
		t.Fatalf("LoadPreferences = (%v, %v), want record", saved, err)
	}
	if !saved.OnboardingCompleted {
		t.Error("saved record should be marked onboarding-complete")
	}
}

func TestResetOnboarding(t *testing.T) {
	t.Run("live session clears the record", func(t *testing.T) {
		sess, store := newTestSession(t, models.Credentials{
			IsLoggedIn: true, UserEmail: "alice@example.com",
		})
		if err := sess.CompleteOnboarding(models.NewUserPreferences("alice@example.com")); err != nil {
			t.Fatalf("CompleteOnboarding failed: %v", err)
		}

		if err := sess.ResetOnboarding(); err != nil {
			t.Fatalf("ResetOnboarding failed: %v", err)
		}
		if got := sess.Bootstrap(); got != constants.RouteOnboarding {
			t.Errorf("Bootstrap after reset = %v, want RouteOnboarding", got)
		}
		if prefs, _ := store.LoadPreferences(); prefs != nil {
			t.Errorf("preferences survived a live reset: %+v", prefs)
		}
	})

	t.Run("debug session keeps the record", func(t *testing.T) {
		sess, store := newTestSession(t, models.Credentials{
			IsLoggedIn: true, IsDebugMode: true, UserEmail: constants.DebugEmail,
		})
		if err := sess.CompleteOnboarding(models.DebugPreferences()); err != nil {
			t.Fatalf("CompleteOnboarding failed: %v", err)
		}

		if err := sess.ResetOnboarding(); err != nil {
			t.Fatalf("ResetOnboarding failed: %v", err)
		}
		if prefs, _ := store.LoadPreferences(); prefs == nil {
			t.Error("debug reset should keep the preference record")
		}
	})
}

func TestPreferences_DebugFallback(t *testing.T) {
	sess, _ := newTestSession(t, models.Credentials{
		IsLoggedIn: true, IsDebugMode: true, UserEmail: constants.DebugEmail,
	})

	prefs, err := sess.Preferences()
	if err != nil {
		t.Fatalf("Preferences failed: %v", err)
	}
	if prefs == nil {
		t.Fatal("debug session with no record should fall back to canned preferences")
	}
	if prefs.Email != constants.DebugEmail || prefs.TargetSubstance != "coffee" {
		t.Errorf("unexpected canned record: %+v", prefs)
	}
	if !prefs.OnboardingCompleted {
		t.Error("canned record should be onboarding-complete")
	}
}

func TestRouteAfterLogin(t *testing.T) {
	sess, _ := newTestSession(t, models.Credentials{})

	if got := sess.RouteAfterLogin(true); got != constants.RouteMain {
		t.Errorf("RouteAfterLogin(debug) = %v, want RouteMain", got)
	}
	if got := sess.RouteAfterLogin(false); got != constants.RouteOnboarding {
		t.Errorf("RouteAfterLogin(live, no onboarding) = %v, want RouteOnboarding", got)
	}
}

func TestRouteZeroValue(t *testing.T) {
	// A freshly constructed model has no route set yet; the zero value
	// must be the loading screen.
	var r constants.Route
	if r != constants.RouteLoading {
		t.Errorf("zero Route = %v, want RouteLoading", r)
	}
}
