package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pichane/iquit-cli/internal/models"
)

type jsonStore struct {
	Version     int                       `json:"version"`
	Values      map[string]string         `json:"values"`
	Preferences *models.UserPreferences   `json:"preferences,omitempty"`
	Events      []models.ConsumptionEvent `json:"events"`
}

// JSONStore persists the whole store as a single JSON document. It is the
// default backend.
type JSONStore struct {
	path  string
	store *jsonStore
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &jsonStore{
		Version: 1,
		Values:  make(map[string]string),
		Events:  []models.ConsumptionEvent{},
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &jsonStore{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Values == nil {
		s.store.Values = make(map[string]string)
	}
	if s.store.Events == nil {
		s.store.Events = []models.ConsumptionEvent{}
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetValue(key string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	return s.store.Values[key], nil
}

func (s *JSONStore) SetValue(key, value string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Values[key] = value
	return s.save()
}

func (s *JSONStore) DeleteValue(key string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	delete(s.store.Values, key)
	return s.save()
}

func (s *JSONStore) SavePreferences(prefs models.UserPreferences) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Preferences = &prefs
	return s.save()
}

func (s *JSONStore) LoadPreferences() (*models.UserPreferences, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	if s.store.Preferences == nil {
		return nil, nil
	}
	prefs := *s.store.Preferences
	return &prefs, nil
}

func (s *JSONStore) ClearPreferences() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Preferences = nil
	return s.save()
}

func (s *JSONStore) AddEvent(event models.ConsumptionEvent) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Events = append(s.store.Events, event)
	return s.save()
}

func (s *JSONStore) GetEventsSince(since time.Time) ([]models.ConsumptionEvent, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	events := make([]models.ConsumptionEvent, 0)
	for _, event := range s.store.Events {
		if !event.Timestamp.Before(since) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (s *JSONStore) GetAllEvents() ([]models.ConsumptionEvent, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	events := make([]models.ConsumptionEvent, len(s.store.Events))
	copy(events, s.store.Events)
	return events, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
