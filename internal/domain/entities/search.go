package entities

import "github.com/vetconnect/backend/pkg/geo"

// SortOrder selects the final ordering of search results
type SortOrder string

const (
	// SortByDefault sorts by distance when an origin is given, otherwise by rating
	SortByDefault    SortOrder = ""
	SortByDistance   SortOrder = "distance"
	SortByRating     SortOrder = "rating"
	SortByExperience SortOrder = "experience"
)

// SearchFilters is the user-entered veterinarian search request
type SearchFilters struct {
	Query         string          `json:"query,omitempty"`
	Specialties   []string        `json:"specialties,omitempty"`
	MinRating     float64         `json:"min_rating,omitempty"`
	MinExperience int             `json:"min_experience,omitempty"`
	EmergencyOnly bool            `json:"emergency_only,omitempty"`
	OpenNow       bool            `json:"open_now,omitempty"`
	Origin        *geo.Coordinate `json:"origin,omitempty"`
	RadiusKm      float64         `json:"radius_km,omitempty"`
	SortBy        SortOrder       `json:"sort_by,omitempty"`
	Limit         int             `json:"limit"`
	Offset        int             `json:"offset"`
}

// VeterinarianResult is a veterinarian enriched for display
type VeterinarianResult struct {
	Veterinarian  *Veterinarian `json:"veterinarian"`
	Clinic        *Clinic       `json:"clinic,omitempty"`
	DistanceKm    *float64      `json:"distance_km,omitempty"`
	DistanceLabel string        `json:"distance_label,omitempty"`
	OpenNow       *bool         `json:"open_now,omitempty"`
}

// SearchResult is the ranked page returned by a veterinarian search.
// TotalCount is the remote candidate count before client-side refinement.
type SearchResult struct {
	Items      []VeterinarianResult `json:"items"`
	TotalCount int                  `json:"total_count"`
	HasMore    bool                 `json:"has_more"`
	Excluded   int                  `json:"excluded"`
}

// ClinicResult is a clinic enriched with its distance from an origin
type ClinicResult struct {
	Clinic        *Clinic `json:"clinic"`
	DistanceKm    float64 `json:"distance_km"`
	DistanceLabel string  `json:"distance_label"`
	OpenNow       bool    `json:"open_now"`
}
