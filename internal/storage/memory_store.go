package storage

import (
	"sync"
	"time"

	"github.com/pichane/iquit-cli/internal/models"
)

// MemoryStore is a Provider kept entirely in memory, used in tests and as
// the throwaway backend when no durable location is writable.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	prefs  *models.UserPreferences
	events []models.ConsumptionEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (s *MemoryStore) Init() error { return nil }
func (s *MemoryStore) Load() error { return nil }
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) GetValue(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryStore) SetValue(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) DeleteValue(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) SavePreferences(prefs models.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = &prefs
	return nil
}

func (s *MemoryStore) LoadPreferences() (*models.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs == nil {
		return nil, nil
	}
	prefs := *s.prefs
	return &prefs, nil
}

func (s *MemoryStore) ClearPreferences() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = nil
	return nil
}

func (s *MemoryStore) AddEvent(event models.ConsumptionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) GetEventsSince(since time.Time) ([]models.ConsumptionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]models.ConsumptionEvent, 0)
	for _, event := range s.events {
		if !event.Timestamp.Before(since) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (s *MemoryStore) GetAllEvents() ([]models.ConsumptionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]models.ConsumptionEvent, len(s.events))
	copy(events, s.events)
	return events, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
