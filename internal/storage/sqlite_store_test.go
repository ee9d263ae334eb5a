package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pichane/iquit-cli/internal/models"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "iquit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Values(t *testing.T) {
	store := newSQLiteTestStore(t)

	if err := store.SetValue("user_email", "alice@example.com"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	// Upsert semantics
	if err := store.SetValue("user_email", "bob@example.com"); err != nil {
		t.Fatalf("SetValue overwrite failed: %v", err)
	}
	got, err := store.GetValue("user_email")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if got != "bob@example.com" {
		t.Errorf("GetValue = %q, want %q", got, "bob@example.com")
	}

	if got, err := store.GetValue("missing"); err != nil || got != "" {
		t.Errorf("GetValue on missing key = (%q, %v), want empty and nil", got, err)
	}

	if err := store.DeleteValue("user_email"); err != nil {
		t.Fatalf("DeleteValue failed: %v", err)
	}
	if got, _ := store.GetValue("user_email"); got != "" {
		t.Errorf("value survived delete: %q", got)
	}
}

func TestSQLiteStore_PreferencesRoundTrip(t *testing.T) {
	store := newSQLiteTestStore(t)

	if got, err := store.LoadPreferences(); err != nil || got != nil {
		t.Fatalf("LoadPreferences on empty store = (%v, %v), want (nil, nil)", got, err)
	}

	quit := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	prefs := models.NewUserPreferences("alice@example.com")
	prefs.TargetSubstance = "cigarettes"
	prefs.DailyGoal = 5
	prefs.UnitType = "piece"
	prefs.QuitDate = &quit

	if err := store.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	got, err := store.LoadPreferences()
	if err != nil || got == nil {
		t.Fatalf("LoadPreferences = (%v, %v), want record", got, err)
	}
	if got.TargetSubstance != "cigarettes" || got.DailyGoal != 5 {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.QuitDate == nil || !got.QuitDate.Equal(quit) {
		t.Errorf("QuitDate = %v, want %v", got.QuitDate, quit)
	}

	// Saving again replaces the single record.
	prefs.DailyGoal = 3
	if err := store.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences overwrite failed: %v", err)
	}
	got, _ = store.LoadPreferences()
	if got.DailyGoal != 3 {
		t.Errorf("DailyGoal = %v, want 3 after overwrite", got.DailyGoal)
	}

	if err := store.ClearPreferences(); err != nil {
		t.Fatalf("ClearPreferences failed: %v", err)
	}
	if got, _ := store.LoadPreferences(); got != nil {
		t.Errorf("preferences survived clear: %+v", got)
	}
}

func TestSQLiteStore_Events(t *testing.T) {
	store := newSQLiteTestStore(t)
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := store.AddEvent(models.ConsumptionEvent{
			ID:            string(rune('a' + i)),
			Timestamp:     base.AddDate(0, 0, i),
			SubstanceType: "coffee",
			Quantity:      1,
			Unit:          "cup",
			IsDebugData:   i == 2,
		})
		if err != nil {
			t.Fatalf("AddEvent failed: %v", err)
		}
	}

	all, err := store.GetAllEvents()
	if err != nil {
		t.Fatalf("GetAllEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAllEvents returned %d events, want 3", len(all))
	}
	if !all[2].IsDebugData {
		t.Error("debug flag lost on the round trip")
	}

	since, err := store.GetEventsSince(base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GetEventsSince failed: %v", err)
	}
	if len(since) != 1 {
		t.Errorf("GetEventsSince returned %d events, want 1", len(since))
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iquit.db")
	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.SetValue("is_logged_in", "true"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := NewSQLiteStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer second.Close()

	got, err := second.GetValue("is_logged_in")
	if err != nil || got != "true" {
		t.Errorf("GetValue after reopen = (%q, %v), want (\"true\", nil)", got, err)
	}
}
