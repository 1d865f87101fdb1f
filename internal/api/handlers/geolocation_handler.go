package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/pkg/geo"
)

// PlaceFinder resolves places through the configured geocoder
type PlaceFinder interface {
	Geocode(ctx context.Context, place string) (*providers.GeocodedAddress, error)
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*providers.GeocodedAddress, error)
	Autocomplete(ctx context.Context, query string, limit int) ([]*providers.Place, error)
}

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	places PlaceFinder
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(places PlaceFinder) *GeolocationHandler {
	return &GeolocationHandler{places: places}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	result, err := h.places.Geocode(r.Context(), address)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ReverseGeocode handles GET /api/geocode/reverse?lat=...&lon=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	coord, err := requireCoordinate(r, "lat", "lon")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	address, err := h.places.ReverseGeocode(r.Context(), coord)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address.FormattedAddress,
		"city":    address.City,
		"state":   address.State,
		"details": address,
	})
}

// Autocomplete handles GET /api/geocode/autocomplete?q=...
func (h *GeolocationHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	places, err := h.places.Autocomplete(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": places,
		"count":       len(places),
	})
}
