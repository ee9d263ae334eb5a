package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pichane/iquit-cli/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	substance_type TEXT NOT NULL,
	quantity REAL NOT NULL,
	unit TEXT NOT NULL,
	cost REAL NOT NULL,
	notes TEXT,
	is_debug_data INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
`

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema is idempotent; applying it on load picks up new tables
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetValue(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteValue(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) SavePreferences(prefs models.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO preferences (key, data) VALUES (?, ?)", prefsKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadPreferences() (*models.UserPreferences, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM preferences WHERE key = ?", prefsKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := &models.UserPreferences{}
	if err := json.Unmarshal([]byte(data), prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return prefs, nil
}

func (s *SQLiteStore) ClearPreferences() error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", prefsKey); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddEvent(event models.ConsumptionEvent) error {
	_, err := s.db.Exec(
		"INSERT INTO events (id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		event.ID,
		event.Timestamp.UTC().Format(time.RFC3339),
		event.SubstanceType,
		event.Quantity,
		event.Unit,
		event.Cost,
		event.Notes,
		boolToInt(event.IsDebugData),
	)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetEventsSince(since time.Time) ([]models.ConsumptionEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data FROM events WHERE timestamp >= ? ORDER BY timestamp",
		since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *SQLiteStore) GetAllEvents() ([]models.ConsumptionEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data FROM events ORDER BY timestamp",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// prefsKey is the fixed key of the single-record preference cache.
const prefsKey = "user_preferences"

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanEvents(rows *sql.Rows) ([]models.ConsumptionEvent, error) {
	events := make([]models.ConsumptionEvent, 0)
	for rows.Next() {
		var (
			event     models.ConsumptionEvent
			timestamp string
			notes     sql.NullString
			isDebug   int
		)
		if err := rows.Scan(&event.ID, &timestamp, &event.SubstanceType, &event.Quantity, &event.Unit, &event.Cost, &notes, &isDebug); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}
		event.Timestamp = ts
		event.Notes = notes.String
		event.IsDebugData = isDebug != 0
		events = append(events, event)
	}
	return events, rows.Err()
}
