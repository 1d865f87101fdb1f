package geolocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/pkg/config"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

func TestMockProvider_Geocode(t *testing.T) {
	provider := NewMockGeolocationProvider()

	addr, err := provider.Geocode(context.Background(), "Mission District, SF")
	require.NoError(t, err)
	assert.Equal(t, 37.7599, addr.Coordinates.Latitude)

	_, err = provider.Geocode(context.Background(), "Reykjavik")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestMockProvider_ReverseGeocodeNearest(t *testing.T) {
	provider := NewMockGeolocationProvider()

	addr, err := provider.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 37.80, Longitude: -122.27})
	require.NoError(t, err)

	assert.Equal(t, "Oakland", addr.City)
	assert.Equal(t, "CA", addr.State)
	assert.Equal(t, 37.80, addr.Coordinates.Latitude)
}

func TestMockProvider_Autocomplete(t *testing.T) {
	provider := NewMockGeolocationProvider()

	places, err := provider.Autocomplete(context.Background(), "san", 5)
	require.NoError(t, err)

	require.Len(t, places, 2)
	assert.Equal(t, "San Francisco", places[0].Name)
	assert.Equal(t, "San Jose", places[1].Name)
}

func TestStaticPositionProvider(t *testing.T) {
	ctx := context.Background()

	coord := geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	got, err := NewStaticPositionProvider(&coord).CurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, coord, got)

	_, err = NewStaticPositionProvider(nil).CurrentPosition(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))

	_, err = NewDeniedPositionProvider().CurrentPosition(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePermissionDenied))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.GeolocationConfig{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockGeolocationProvider{}, p)

	p, err = NewProvider(config.GeolocationConfig{Provider: "Mapbox", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MapboxGeolocationProvider{}, p)

	_, err = NewProvider(config.GeolocationConfig{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
