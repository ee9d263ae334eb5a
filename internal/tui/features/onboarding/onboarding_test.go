package onboarding

import (
	"testing"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
)

func newTestModel(t *testing.T) (Model, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	creds := credentials.NewPlainStore(store)
	err := creds.Set(models.Credentials{IsLoggedIn: true, UserEmail: "alice@example.com"})
	if err != nil {
		t.Fatalf("Set credentials failed: %v", err)
	}
	sess := session.New(auth.NewService(creds, "http://localhost:5002", nil), store)
	return New(sess), store
}

func TestCanProceed(t *testing.T) {
	m, _ := newTestModel(t)

	if m.CanProceed() {
		t.Error("step 0 without a substance should not proceed")
	}
	m.SelectSubstance("coffee")
	if !m.CanProceed() {
		t.Error("step 0 with a substance should proceed")
	}

	m, _ = m.Next()
	if m.Step() != 1 {
		t.Fatalf("Step = %d, want 1", m.Step())
	}
	if m.CanProceed() {
		t.Error("step 1 without an amount should not proceed")
	}
	m.SetDailyAmount("2")
	if !m.CanProceed() {
		t.Error("step 1 with amount and defaulted unit should proceed")
	}

	m, _ = m.Next()
	if m.CanProceed() {
		t.Error("step 2 without a cost should not proceed")
	}
	m.SetCost("3.50")
	if !m.CanProceed() {
		t.Error("step 2 with a cost should proceed")
	}

	// Quit date and summary steps are always passable.
	m, _ = m.Next()
	if !m.CanProceed() {
		t.Error("step 3 should always proceed")
	}
	m, _ = m.Next()
	if !m.CanProceed() {
		t.Error("final step should always proceed")
	}
}

func TestNext_BlockedWhenUnsatisfied(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = m.Next()
	if m.Step() != 0 {
		t.Errorf("Next without a substance advanced to step %d", m.Step())
	}
}

func TestSelectSubstance_DefaultsUnit(t *testing.T) {
	m, _ := newTestModel(t)

	m.SelectSubstance("coffee")
	m.SetDailyAmount("2")
	if !m.CanProceed() {
		t.Error("selecting a substance should default its unit")
	}
}

func TestBack(t *testing.T) {
	m, _ := newTestModel(t)
	m.SelectSubstance("coffee")
	m, _ = m.Next()

	m = m.Back()
	if m.Step() != 0 {
		t.Errorf("Step after Back = %d, want 0", m.Step())
	}
	m = m.Back()
	if m.Step() != 0 {
		t.Errorf("Back below the first step moved to %d", m.Step())
	}
}

func TestComplete(t *testing.T) {
	t.Run("valid input persists the record", func(t *testing.T) {
		m, store := newTestModel(t)
		m.SelectSubstance("coffee")
		m.SetDailyAmount("2")
		m.SetCost("3.50")
		m.SetQuitDate("2026-08-25")

		m, cmd := m.Complete()
		if cmd == nil {
			t.Fatal("Complete with valid input should return a save command")
		}
		msg := cmd()
		m, _ = m.Update(msg)

		prefs, err := store.LoadPreferences()
		if err != nil || prefs == nil {
			t.Fatalf("LoadPreferences = (%v, %v), want record", prefs, err)
		}
		if prefs.TargetSubstance != "coffee" || prefs.DailyGoal != 2 || prefs.CostPerUnit != 3.50 {
			t.Errorf("unexpected record: %+v", prefs)
		}
		if prefs.QuitDate == nil {
			t.Error("quit date should be set")
		}
		if !prefs.OnboardingCompleted {
			t.Error("record should be marked onboarding-complete")
		}
		if prefs.Email != "alice@example.com" {
			t.Errorf("Email = %q, want alice@example.com", prefs.Email)
		}
	})

	t.Run("invalid amount surfaces a message and saves nothing", func(t *testing.T) {
		m, store := newTestModel(t)
		m.SelectSubstance("coffee")
		m.SetDailyAmount("0")
		m.SetCost("3.50")

		m, cmd := m.Complete()
		if cmd != nil {
			t.Error("Complete with a zero amount should not save")
		}
		if m.errMessage == "" {
			t.Error("expected a validation message")
		}
		if prefs, _ := store.LoadPreferences(); prefs != nil {
			t.Errorf("record saved despite invalid input: %+v", prefs)
		}
	})

	t.Run("negative cost is rejected", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.SelectSubstance("coffee")
		m.SetDailyAmount("2")
		m.SetCost("-1")

		_, cmd := m.Complete()
		if cmd != nil {
			t.Error("Complete with a negative cost should not save")
		}
	})

	t.Run("zero cost is allowed", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.SelectSubstance("social_media")
		m.SetDailyAmount("3")
		m.SetCost("0")

		_, cmd := m.Complete()
		if cmd == nil {
			t.Error("zero cost should be acceptable")
		}
	})

	t.Run("malformed quit date is rejected", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.SelectSubstance("coffee")
		m.SetDailyAmount("2")
		m.SetCost("3.50")
		m.SetQuitDate("25/08/2026")

		_, cmd := m.Complete()
		if cmd != nil {
			t.Error("Complete with a malformed date should not save")
		}
	})
}
