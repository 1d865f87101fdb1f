package entities

import (
	"time"
)

// SearchEvent represents a single veterinarian search for analytics.
type SearchEvent struct {
	ID            string    `json:"id" db:"id"`
	Query         string    `json:"query" db:"query"`
	Specialties   []string  `json:"specialties" db:"-"`
	EmergencyOnly bool      `json:"emergency_only" db:"emergency_only"`
	OpenNow       bool      `json:"open_now" db:"open_now"`
	RadiusKm      float64   `json:"radius_km" db:"radius_km"`
	ResultCount   int       `json:"result_count" db:"result_count"`
	TotalCount    int       `json:"total_count" db:"total_count"`
	ExcludedCount int       `json:"excluded_count" db:"excluded_count"`
	LatencyMs     int       `json:"latency_ms" db:"latency_ms"`
	UserLatitude  *float64  `json:"user_latitude,omitempty" db:"user_latitude"`
	UserLongitude *float64  `json:"user_longitude,omitempty" db:"user_longitude"`
	Source        string    `json:"source" db:"source"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
