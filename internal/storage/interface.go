package storage

import (
	"errors"
	"time"

	"github.com/pichane/iquit-cli/internal/models"
)

// ErrNotInitialized is returned by Load when no store exists at the
// configured location.
var ErrNotInitialized = errors.New("storage not initialized")

// Provider is the durable local store behind the credential flags, the
// preference cache, and the consumption event history. All writes are
// whole-record replacements; last writer wins.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value session flags. A missing key reads as the empty string.
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	DeleteValue(key string) error

	// Preferences (single-record cache, fixed key). LoadPreferences
	// returns (nil, nil) when no record has been saved.
	SavePreferences(models.UserPreferences) error
	LoadPreferences() (*models.UserPreferences, error)
	ClearPreferences() error

	// Consumption events (append-only local history)
	AddEvent(models.ConsumptionEvent) error
	GetEventsSince(since time.Time) ([]models.ConsumptionEvent, error)
	GetAllEvents() ([]models.ConsumptionEvent, error)

	// Utils
	GetConfigPath() string
}

// Open loads the provider, initializing it first if nothing exists at the
// configured location yet. There is no separate init command: the app must
// come up on a fresh device.
func Open(p Provider) error {
	err := p.Load()
	if errors.Is(err, ErrNotInitialized) {
		if err := p.Init(); err != nil {
			return err
		}
		return p.Load()
	}
	return err
}
