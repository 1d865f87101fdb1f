package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vetconnect/backend/internal/domain/entities"
)

// ClinicReader fetches clinics and evaluates their opening hours
type ClinicReader interface {
	GetClinic(ctx context.Context, id string) (*entities.Clinic, error)
	OpenStatus(ctx context.Context, id string, at time.Time) (*entities.Clinic, entities.OpenStatus, error)
	OpenClinics(ctx context.Context, at time.Time) ([]*entities.Clinic, error)
}

// ClinicHandler handles clinic endpoints
type ClinicHandler struct {
	clinics   ClinicReader
	proximity ProximityFinder
	now       func() time.Time
}

// NewClinicHandler creates a new clinic handler
func NewClinicHandler(clinics ClinicReader, proximity ProximityFinder) *ClinicHandler {
	return &ClinicHandler{
		clinics:   clinics,
		proximity: proximity,
		now:       time.Now,
	}
}

// GetClinic handles GET /api/clinics/{id}
func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	clinic, err := h.clinics.GetClinic(r.Context(), clinicID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, clinic)
}

// GetClinicStatus handles GET /api/clinics/{id}/status. An optional "at"
// parameter (RFC 3339) evaluates the hours at another instant.
func (h *ClinicHandler) GetClinicStatus(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	at := h.now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid at parameter, expected RFC 3339")
			return
		}
		at = parsed
	}

	clinic, status, err := h.clinics.OpenStatus(r.Context(), clinicID, at)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinic_id": clinic.ID,
		"name":      clinic.Name,
		"status":    status,
	})
}

// ListOpenClinics handles GET /api/clinics/open
func (h *ClinicHandler) ListOpenClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinics.OpenClinics(r.Context(), h.now())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}

// NearbyClinics handles GET /api/clinics/nearby
func (h *ClinicHandler) NearbyClinics(w http.ResponseWriter, r *http.Request) {
	origin, err := requireCoordinate(r, "lat", "lon")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	radius, _, err := queryFloat(r, "radius")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	clinics, err := h.proximity.NearbyClinics(r.Context(), origin, radius)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}
