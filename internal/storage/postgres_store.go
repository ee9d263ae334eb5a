package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	"github.com/pichane/iquit-cli/internal/models"
)

// PostgresStore keeps the store in a shared PostgreSQL database so that
// several devices can point at the same session record.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

// HasEmbeddedCredentials reports whether a connection string carries a
// password inline. Those are rejected; the keyring or environment should
// hold credentials instead.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

const postgresSchema = `
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
	timestamp TIMESTAMPTZ NOT NULL,
	substance_type TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	unit TEXT NOT NULL,
	cost DOUBLE PRECISION NOT NULL,
	notes TEXT,
	is_debug_data BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
`

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) SetValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) DeleteValue(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) SavePreferences(prefs models.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO preferences (key, data) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data",
		prefsKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadPreferences() (*models.UserPreferences, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM preferences WHERE key = $1", prefsKey).Scan(&data)
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

func (s *PostgresStore) ClearPreferences() error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = $1", prefsKey); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddEvent(event models.ConsumptionEvent) error {
	_, err := s.db.Exec(
		"INSERT INTO events (id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		event.ID,
		event.Timestamp.UTC(),
		event.SubstanceType,
		event.Quantity,
		event.Unit,
		event.Cost,
		event.Notes,
		event.IsDebugData,
	)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEventsSince(since time.Time) ([]models.ConsumptionEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data FROM events WHERE timestamp >= $1 ORDER BY timestamp",
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanPostgresEvents(rows)
}

func (s *PostgresStore) GetAllEvents() ([]models.ConsumptionEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, timestamp, substance_type, quantity, unit, cost, notes, is_debug_data FROM events ORDER BY timestamp",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanPostgresEvents(rows)
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

func scanPostgresEvents(rows *sql.Rows) ([]models.ConsumptionEvent, error) {
	events := make([]models.ConsumptionEvent, 0)
	for rows.Next() {
		var (
			event models.ConsumptionEvent
			notes sql.NullString
		)
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.SubstanceType, &event.Quantity, &event.Unit, &event.Cost, &notes, &event.IsDebugData); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Notes = notes.String
		events = append(events, event)
	}
	return events, rows.Err()
}
