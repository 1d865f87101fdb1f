package handlers

import (
	"net/http"

	"github.com/vetconnect/backend/pkg/geo"
)

// DistanceHandler measures distances between two points
type DistanceHandler struct {
	proximity ProximityFinder
}

// NewDistanceHandler creates a new distance handler
func NewDistanceHandler(proximity ProximityFinder) *DistanceHandler {
	return &DistanceHandler{proximity: proximity}
}

// GetDistance handles GET /api/distance?from_lat=&from_lon=&to_lat=&to_lon=&unit=
func (h *DistanceHandler) GetDistance(w http.ResponseWriter, r *http.Request) {
	from, err := requireCoordinate(r, "from_lat", "from_lon")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	to, err := requireCoordinate(r, "to_lat", "to_lon")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var unit geo.UnitSystem
	if raw := r.URL.Query().Get("unit"); raw != "" {
		if unit, err = geo.ParseUnitSystem(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	km, label, err := h.proximity.Distance(from, to, unit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"distance_km":    km,
		"distance_miles": geo.KmToMiles(km),
		"label":          label,
	})
}
