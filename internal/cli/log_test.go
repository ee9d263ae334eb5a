package cli

import (
	"testing"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
)

// newDebugContext wires a Context over a debug session so commands run
// against the mock client and the in-memory store.
func newDebugContext(t *testing.T) (*Context, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	creds := credentials.NewPlainStore(store)
	err := creds.Set(models.Credentials{
		IsLoggedIn: true, IsDebugMode: true,
		UserEmail: constants.DebugEmail, AuthToken: constants.DebugToken,
	})
	if err != nil {
		t.Fatalf("Set credentials failed: %v", err)
	}

	prefs := models.DebugPreferences()
	if err := store.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	authSvc := auth.NewService(creds, "http://localhost:5002", nil)
	return &Context{
		Session: session.New(authSvc, store),
		Creds:   creds,
		Store:   store,
		BaseURL: "http://localhost:5002",
	}, store
}

func TestLogCmd_Validate(t *testing.T) {
	zero := 0.0
	negative := -1.0

	cases := []struct {
		name    string
		cmd     LogCmd
		wantErr bool
	}{
		{"defaults", LogCmd{Quantity: 1}, false},
		{"explicit zero cost", LogCmd{Quantity: 1, Cost: &zero}, false},
		{"negative cost", LogCmd{Quantity: 1, Cost: &negative}, true},
		{"zero quantity", LogCmd{Quantity: 0}, true},
		{"unknown substance", LogCmd{Quantity: 1, Substance: "cheese"}, true},
		{"known substance", LogCmd{Quantity: 1, Substance: "coffee"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLogCmd_CostResolution(t *testing.T) {
	t.Run("omitted cost falls back to per-unit cost times quantity", func(t *testing.T) {
		ctx, store := newDebugContext(t)

		cmd := &LogCmd{Quantity: 2}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		events, err := store.GetAllEvents()
		if err != nil || len(events) != 1 {
			t.Fatalf("GetAllEvents = (%d events, %v), want 1", len(events), err)
		}
		// Debug prefs carry 3.50 per cup.
		if events[0].Cost != 7.0 {
			t.Errorf("Cost = %v, want 7.0 (per-unit default)", events[0].Cost)
		}
		if events[0].SubstanceType != "coffee" {
			t.Errorf("SubstanceType = %q, want the tracked substance", events[0].SubstanceType)
		}
	})

	t.Run("explicit zero cost is kept", func(t *testing.T) {
		ctx, store := newDebugContext(t)

		zero := 0.0
		cmd := &LogCmd{Quantity: 1, Cost: &zero}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		events, err := store.GetAllEvents()
		if err != nil || len(events) != 1 {
			t.Fatalf("GetAllEvents = (%d events, %v), want 1", len(events), err)
		}
		if events[0].Cost != 0 {
			t.Errorf("Cost = %v, want 0 for a free consumption", events[0].Cost)
		}
	})
}
