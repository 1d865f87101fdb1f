package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/api/handlers"
	"github.com/vetconnect/backend/internal/domain/entities"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

func TestClinicHandler_GetClinicStatus_AtInstant(t *testing.T) {
	clinics := new(MockClinicService)
	handler := handlers.NewClinicHandler(clinics, new(MockProximity))

	at := time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC)
	clinic := &entities.Clinic{ID: "clinic-1", Name: "Mission Animal Hospital"}
	clinics.On("OpenStatus", mock.Anything, "clinic-1", mock.MatchedBy(at.Equal)).
		Return(clinic, entities.OpenStatus{Open: true, State: entities.OpenStateOpen, ClosesAt: "18:00"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/clinic-1/status?at=2024-01-15T20:30:00Z", nil)
	req.SetPathValue("id", "clinic-1")
	rr := httptest.NewRecorder()

	handler.GetClinicStatus(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "clinic-1", body["clinic_id"])
	status := body["status"].(map[string]interface{})
	assert.Equal(t, true, status["open"])
	assert.Equal(t, "18:00", status["closes_at"])
	clinics.AssertExpectations(t)
}

func TestClinicHandler_GetClinicStatus_BadInstant(t *testing.T) {
	clinics := new(MockClinicService)
	handler := handlers.NewClinicHandler(clinics, new(MockProximity))

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/clinic-1/status?at=yesterday", nil)
	req.SetPathValue("id", "clinic-1")
	rr := httptest.NewRecorder()

	handler.GetClinicStatus(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	clinics.AssertNotCalled(t, "OpenStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestClinicHandler_GetClinic_NotFound(t *testing.T) {
	clinics := new(MockClinicService)
	handler := handlers.NewClinicHandler(clinics, new(MockProximity))
	clinics.On("GetClinic", mock.Anything, "clinic-404").Return(nil, apperrors.NewNotFoundError("clinic not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/clinic-404", nil)
	req.SetPathValue("id", "clinic-404")
	rr := httptest.NewRecorder()

	handler.GetClinic(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rr)["type"])
}

func TestClinicHandler_ListOpenClinics(t *testing.T) {
	clinics := new(MockClinicService)
	handler := handlers.NewClinicHandler(clinics, new(MockProximity))
	clinics.On("OpenClinics", mock.Anything, mock.AnythingOfType("time.Time")).Return([]*entities.Clinic{
		{ID: "clinic-4", Name: "Bay Area Emergency Vets"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/open", nil)
	rr := httptest.NewRecorder()

	handler.ListOpenClinics(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), decodeBody(t, rr)["count"])
}

func TestClinicHandler_NearbyClinics(t *testing.T) {
	proximity := new(MockProximity)
	handler := handlers.NewClinicHandler(new(MockClinicService), proximity)

	origin := geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	proximity.On("NearbyClinics", mock.Anything, origin, 1.0).Return([]entities.ClinicResult{
		{Clinic: &entities.Clinic{ID: "clinic-1"}, DistanceKm: 0.4, DistanceLabel: "400 m", OpenNow: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/nearby?lat=37.7749&lon=-122.4194&radius=1", nil)
	rr := httptest.NewRecorder()

	handler.NearbyClinics(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(1), body["count"])
	first := body["clinics"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "400 m", first["distance_label"])
	proximity.AssertExpectations(t)
}
