package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vetconnect/backend/internal/api/handlers"
	"github.com/vetconnect/backend/pkg/geo"
)

func TestDistanceHandler_GetDistance(t *testing.T) {
	proximity := new(MockProximity)
	handler := handlers.NewDistanceHandler(proximity)

	from := geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	to := geo.Coordinate{Latitude: 37.7599, Longitude: -122.4148}
	proximity.On("Distance", from, to, geo.UnitImperial).Return(1.72, "1.1 mi", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/distance?from_lat=37.7749&from_lon=-122.4194&to_lat=37.7599&to_lon=-122.4148&unit=imperial", nil)
	rr := httptest.NewRecorder()
	handler.GetDistance(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "1.1 mi", body["label"])
	assert.InDelta(t, 1.72, body["distance_km"], 1e-9)
	assert.InDelta(t, geo.KmToMiles(1.72), body["distance_miles"], 1e-9)
}

func TestDistanceHandler_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing destination", query: "from_lat=37.7&from_lon=-122.4"},
		{name: "unknown unit", query: "from_lat=37.7&from_lon=-122.4&to_lat=37.8&to_lon=-122.3&unit=parsecs"},
		{name: "out of range", query: "from_lat=37.7&from_lon=-222.4&to_lat=37.8&to_lon=-122.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proximity := new(MockProximity)
			handler := handlers.NewDistanceHandler(proximity)

			req := httptest.NewRequest(http.MethodGet, "/api/distance?"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.GetDistance(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			proximity.AssertNotCalled(t, "Distance", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
