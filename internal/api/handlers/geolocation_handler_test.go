package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vetconnect/backend/internal/api/handlers"
	"github.com/vetconnect/backend/internal/domain/providers"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

func TestGeolocationHandler_Geocode(t *testing.T) {
	places := new(MockPlaces)
	handler := handlers.NewGeolocationHandler(places)
	places.On("Geocode", mock.Anything, "Mission District").Return(&providers.GeocodedAddress{
		FormattedAddress: "Mission District, San Francisco, CA",
		City:             "San Francisco",
		Coordinates:      geo.Coordinate{Latitude: 37.7599, Longitude: -122.4148},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=Mission+District", nil)
	rr := httptest.NewRecorder()
	handler.Geocode(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "San Francisco", decodeBody(t, rr)["city"])
}

func TestGeolocationHandler_Geocode_MissingAddress(t *testing.T) {
	places := new(MockPlaces)
	handler := handlers.NewGeolocationHandler(places)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=%20", nil)
	rr := httptest.NewRecorder()
	handler.Geocode(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	places.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestGeolocationHandler_ReverseGeocode(t *testing.T) {
	places := new(MockPlaces)
	handler := handlers.NewGeolocationHandler(places)
	coord := geo.Coordinate{Latitude: 37.8044, Longitude: -122.2712}
	places.On("ReverseGeocode", mock.Anything, coord).Return(&providers.GeocodedAddress{
		FormattedAddress: "Oakland, CA",
		City:             "Oakland",
		State:            "CA",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=37.8044&lon=-122.2712", nil)
	rr := httptest.NewRecorder()
	handler.ReverseGeocode(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Oakland, CA", body["address"])
	assert.Equal(t, "CA", body["state"])
}

func TestGeolocationHandler_ProviderFailure(t *testing.T) {
	places := new(MockPlaces)
	handler := handlers.NewGeolocationHandler(places)
	places.On("Autocomplete", mock.Anything, "mis", 5).Return(nil, apperrors.NewTimeoutError("geocode timed out", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/autocomplete?q=mis&limit=5", nil)
	rr := httptest.NewRecorder()
	handler.Autocomplete(rr, req)

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Equal(t, "TIMEOUT", decodeBody(t, rr)["type"])
}

func TestGeolocationHandler_Autocomplete(t *testing.T) {
	places := new(MockPlaces)
	handler := handlers.NewGeolocationHandler(places)
	places.On("Autocomplete", mock.Anything, "san", 0).Return([]*providers.Place{
		{ID: "sf", Name: "San Francisco"},
		{ID: "sj", Name: "San Jose"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/autocomplete?q=san", nil)
	rr := httptest.NewRecorder()
	handler.Autocomplete(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), decodeBody(t, rr)["count"])
}
