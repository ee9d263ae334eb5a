package models

import "time"

// ConsumptionEvent is a single logged habit occurrence. Events are immutable
// once created; the UI only ever sees derived aggregates.
type ConsumptionEvent struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	SubstanceType string    `json:"substance_type"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	Cost          float64   `json:"cost"`
	Notes         string    `json:"notes,omitempty"`
	IsDebugData   bool      `json:"is_debug_data"`
}

// WeeklyStats holds the two trailing 7-day window averages. Derived, never
// persisted.
type WeeklyStats struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// DayCount is one day of the per-day count series returned by the weekly
// stats endpoint, oldest first.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
