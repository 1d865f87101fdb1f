package geolocation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vetconnect/backend/internal/domain/providers"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

type mockPlace struct {
	name    string
	city    string
	state   string
	zipCode string
	coord   geo.Coordinate
}

// gazetteer of Bay Area places the mock provider knows about
var mockPlaces = []mockPlace{
	{name: "San Francisco", city: "San Francisco", state: "CA", zipCode: "94103", coord: geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}},
	{name: "Mission District", city: "San Francisco", state: "CA", zipCode: "94110", coord: geo.Coordinate{Latitude: 37.7599, Longitude: -122.4148}},
	{name: "Sunset District", city: "San Francisco", state: "CA", zipCode: "94122", coord: geo.Coordinate{Latitude: 37.7534, Longitude: -122.4944}},
	{name: "Noe Valley", city: "San Francisco", state: "CA", zipCode: "94114", coord: geo.Coordinate{Latitude: 37.7502, Longitude: -122.4337}},
	{name: "Oakland", city: "Oakland", state: "CA", zipCode: "94607", coord: geo.Coordinate{Latitude: 37.8044, Longitude: -122.2712}},
	{name: "Berkeley", city: "Berkeley", state: "CA", zipCode: "94704", coord: geo.Coordinate{Latitude: 37.8715, Longitude: -122.2730}},
	{name: "San Jose", city: "San Jose", state: "CA", zipCode: "95113", coord: geo.Coordinate{Latitude: 37.3382, Longitude: -121.8863}},
}

// MockGeolocationProvider answers from a small built-in gazetteer. It is
// used in development and tests where no geocoding token is configured.
type MockGeolocationProvider struct{}

var _ providers.GeolocationProvider = (*MockGeolocationProvider)(nil)

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() *MockGeolocationProvider {
	return &MockGeolocationProvider{}
}

// Geocode matches the address against the gazetteer by substring
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(address))
	if needle == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	for _, p := range mockPlaces {
		if strings.Contains(needle, strings.ToLower(p.name)) || strings.Contains(strings.ToLower(p.name), needle) {
			return p.toAddress(), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("no place found for %q", address))
}

// ReverseGeocode returns the nearest gazetteer entry
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*providers.GeocodedAddress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !coord.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	nearest := mockPlaces[0]
	best := geo.DistanceKm(coord, nearest.coord)
	for _, p := range mockPlaces[1:] {
		if d := geo.DistanceKm(coord, p.coord); d < best {
			nearest, best = p, d
		}
	}

	addr := nearest.toAddress()
	addr.Coordinates = coord
	return addr, nil
}

// Autocomplete returns gazetteer entries whose name starts with query, alphabetically
func (m *MockGeolocationProvider) Autocomplete(ctx context.Context, query string, limit int) ([]*providers.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := strings.ToLower(strings.TrimSpace(query))
	if prefix == "" {
		return []*providers.Place{}, nil
	}
	if limit <= 0 {
		limit = defaultAutocompleteSize
	}

	places := []*providers.Place{}
	for _, p := range mockPlaces {
		if strings.HasPrefix(strings.ToLower(p.name), prefix) {
			places = append(places, &providers.Place{
				ID:          "mock." + strings.ReplaceAll(strings.ToLower(p.name), " ", "-"),
				Name:        p.name,
				Address:     fmt.Sprintf("%s, %s %s", p.city, p.state, p.zipCode),
				Coordinates: p.coord,
				PlaceType:   "place",
				Relevance:   1,
			})
		}
	}
	sort.Slice(places, func(i, j int) bool { return places[i].Name < places[j].Name })
	if len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

func (p mockPlace) toAddress() *providers.GeocodedAddress {
	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%s, %s %s, United States", p.name, p.state, p.zipCode),
		City:             p.city,
		State:            p.state,
		ZipCode:          p.zipCode,
		Country:          "United States",
		Coordinates:      p.coord,
	}
}
