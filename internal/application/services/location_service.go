package services

import (
	"context"
	"strings"

	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

// Origin is a resolved search origin and how it was obtained
type Origin struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Label      string         `json:"label,omitempty"`
	Source     string         `json:"source"`
}

// Origin sources
const (
	OriginFromCoordinates = "coordinates"
	OriginFromPlace       = "place"
	OriginFromDevice      = "device"
)

// LocationService resolves search origins through the geocoder and the
// position provider. Every call runs under its configured deadline and
// deadline expiry is reported as TIMEOUT.
type LocationService struct {
	geocoder providers.GeolocationProvider
	position providers.PositionProvider
	timeouts config.TimeoutsConfig
	metrics  *observability.Metrics
}

// NewLocationService creates a new location service. position may be nil,
// in which case CurrentPosition reports UNAVAILABLE.
func NewLocationService(geocoder providers.GeolocationProvider, position providers.PositionProvider, timeouts config.TimeoutsConfig, metrics *observability.Metrics) *LocationService {
	return &LocationService{
		geocoder: geocoder,
		position: position,
		timeouts: timeouts,
		metrics:  metrics,
	}
}

// ResolveOrigin picks explicit coordinates when given, otherwise geocodes
// place. With neither it returns nil and no error: the search runs without
// an origin.
func (s *LocationService) ResolveOrigin(ctx context.Context, coord *geo.Coordinate, place string) (*Origin, error) {
	if coord != nil {
		if !coord.Valid() {
			return nil, apperrors.NewValidationError("coordinates are out of range")
		}
		return &Origin{Coordinate: *coord, Source: OriginFromCoordinates}, nil
	}

	if strings.TrimSpace(place) == "" {
		return nil, nil
	}

	addr, err := s.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}
	return &Origin{Coordinate: addr.Coordinates, Label: addr.FormattedAddress, Source: OriginFromPlace}, nil
}

// CurrentPosition asks the position provider for the device location
func (s *LocationService) CurrentPosition(ctx context.Context) (*Origin, error) {
	if s.position == nil {
		return nil, apperrors.NewUnavailableError("no position provider is configured", nil)
	}
	coord, err := callRemote(ctx, s.metrics, "position", s.timeouts.PositionLookup, s.position.CurrentPosition)
	if err != nil {
		return nil, err
	}
	return &Origin{Coordinate: coord, Source: OriginFromDevice}, nil
}

// Geocode resolves a free-text place
func (s *LocationService) Geocode(ctx context.Context, place string) (*providers.GeocodedAddress, error) {
	if s.geocoder == nil {
		return nil, apperrors.NewUnavailableError("no geocoder is configured", nil)
	}
	return callRemote(ctx, s.metrics, "geocoder", s.timeouts.Geocode, func(ctx context.Context) (*providers.GeocodedAddress, error) {
		return s.geocoder.Geocode(ctx, place)
	})
}

// ReverseGeocode resolves coordinates to an address
func (s *LocationService) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*providers.GeocodedAddress, error) {
	if !coord.Valid() {
		return nil, apperrors.NewValidationError("coordinates are out of range")
	}
	if s.geocoder == nil {
		return nil, apperrors.NewUnavailableError("no geocoder is configured", nil)
	}
	return callRemote(ctx, s.metrics, "geocoder", s.timeouts.Geocode, func(ctx context.Context) (*providers.GeocodedAddress, error) {
		return s.geocoder.ReverseGeocode(ctx, coord)
	})
}

// Autocomplete suggests places for a partial query
func (s *LocationService) Autocomplete(ctx context.Context, query string, limit int) ([]*providers.Place, error) {
	if strings.TrimSpace(query) == "" {
		return []*providers.Place{}, nil
	}
	if s.geocoder == nil {
		return nil, apperrors.NewUnavailableError("no geocoder is configured", nil)
	}
	return callRemote(ctx, s.metrics, "geocoder", s.timeouts.Geocode, func(ctx context.Context) ([]*providers.Place, error) {
		return s.geocoder.Autocomplete(ctx, query, limit)
	})
}
