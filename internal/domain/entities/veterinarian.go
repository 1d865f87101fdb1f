package entities

import (
	"strings"
	"time"
)

// EmergencyKeywords are matched case-insensitively as substrings of a
// veterinarian's specialties to decide emergency capability
var EmergencyKeywords = []string{"emergency", "urgent", "critical", "trauma"}

// Veterinarian represents a veterinary professional attached to one clinic
type Veterinarian struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Specialties     []string  `json:"specialties" db:"-"`
	Rating          float64   `json:"rating" db:"rating"`
	ReviewCount     int       `json:"review_count" db:"review_count"`
	ExperienceYears int       `json:"experience_years" db:"experience_years"`
	ClinicID        string    `json:"clinic_id" db:"clinic_id"`
	Bio             string    `json:"bio,omitempty" db:"bio"`
	PhoneNumber     string    `json:"phone_number,omitempty" db:"phone_number"`
	Email           string    `json:"email,omitempty" db:"email"`
	ConsultationFee float64   `json:"consultation_fee,omitempty" db:"consultation_fee"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// MatchesText reports whether query is a case-insensitive substring of the
// name or of any specialty. An empty query matches everything.
func (v *Veterinarian) MatchesText(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(v.Name), q) {
		return true
	}
	for _, s := range v.Specialties {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// HasAnySpecialty reports whether the veterinarian's specialties intersect
// wanted, compared case-insensitively. An empty wanted set matches everything.
func (v *Veterinarian) HasAnySpecialty(wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(v.Specialties))
	for _, s := range v.Specialties {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[strings.ToLower(strings.TrimSpace(w))]; ok {
			return true
		}
	}
	return false
}

// HandlesEmergencies reports whether any specialty contains an emergency keyword
func (v *Veterinarian) HandlesEmergencies() bool {
	for _, s := range v.Specialties {
		lower := strings.ToLower(s)
		for _, keyword := range EmergencyKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}
