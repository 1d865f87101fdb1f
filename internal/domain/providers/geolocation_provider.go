package providers

import (
	"context"

	"github.com/vetconnect/backend/pkg/geo"
)

// GeolocationProvider defines the interface for geocoding services
type GeolocationProvider interface {
	// Geocode converts a free-text address or place name to its best match
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*GeocodedAddress, error)

	// Autocomplete returns place suggestions for a partial query
	Autocomplete(ctx context.Context, query string, limit int) ([]*Place, error)
}

// PositionProvider reports the caller's current position. Implementations
// return PERMISSION_DENIED or UNAVAILABLE app errors when no fix can be given.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (geo.Coordinate, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string         `json:"formatted_address"`
	Street           string         `json:"street,omitempty"`
	City             string         `json:"city"`
	State            string         `json:"state"`
	ZipCode          string         `json:"zip_code,omitempty"`
	Country          string         `json:"country,omitempty"`
	Coordinates      geo.Coordinate `json:"coordinates"`
}

// Place represents an autocomplete suggestion
type Place struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Coordinates geo.Coordinate `json:"coordinates"`
	PlaceType   string         `json:"place_type,omitempty"`
	Relevance   float64        `json:"relevance,omitempty"`
}
