package entities

import (
	"time"

	"github.com/vetconnect/backend/pkg/geo"
)

// Clinic represents a veterinary facility
type Clinic struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Address     Address         `json:"address" db:"-"`
	Location    *geo.Coordinate `json:"location,omitempty" db:"-"`
	Hours       WeeklyHours     `json:"hours,omitempty" db:"-"`
	TimeZone    string          `json:"time_zone,omitempty" db:"time_zone"`
	Services    []string        `json:"services" db:"-"`
	Rating      float64         `json:"rating" db:"rating"`
	ReviewCount int             `json:"review_count" db:"review_count"`
	PhoneNumber string          `json:"phone_number,omitempty" db:"phone_number"`
	Email       string          `json:"email,omitempty" db:"email"`
	Website     string          `json:"website,omitempty" db:"website"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// HasLocation reports whether the clinic carries coordinates
func (c *Clinic) HasLocation() bool {
	return c != nil && c.Location != nil
}

// LocalTime converts t into the clinic's time zone. Unknown or empty zones
// leave t unchanged.
func (c *Clinic) LocalTime(t time.Time) time.Time {
	if c == nil || c.TimeZone == "" {
		return t
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return t
	}
	return t.In(loc)
}

// IsOpenAt evaluates the clinic's weekly hours at t in the clinic's time zone
func (c *Clinic) IsOpenAt(t time.Time) bool {
	if c == nil {
		return false
	}
	return c.Hours.IsOpen(c.LocalTime(t))
}
