package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vetconnect/backend/internal/infrastructure/observability"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error from the service layer to a status code.
// Messages of server-side failures are not echoed to the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request failed")
	}

	var appErr *apperrors.AppError
	message := http.StatusText(status)
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}

	respondWithJSON(w, status, map[string]string{
		"error": message,
		"type":  string(apperrors.TypeOf(err)),
	})
}

func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	case apperrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrorTypePermissionDenied:
		return http.StatusForbidden
	case apperrors.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// queryFloat parses an optional float parameter
func queryFloat(r *http.Request, name string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, apperrors.NewValidationError("invalid " + name + " parameter")
	}
	return v, true, nil
}

// queryInt parses an optional integer parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid " + name + " parameter")
	}
	return v, nil
}

// queryBool parses an optional boolean parameter
func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError("invalid " + name + " parameter")
	}
	return v, nil
}

// queryCoordinate reads a latitude/longitude parameter pair. Both or neither must be present.
func queryCoordinate(r *http.Request, latName, lonName string) (*geo.Coordinate, error) {
	lat, hasLat, err := queryFloat(r, latName)
	if err != nil {
		return nil, err
	}
	lon, hasLon, err := queryFloat(r, lonName)
	if err != nil {
		return nil, err
	}
	if hasLat != hasLon {
		return nil, apperrors.NewValidationError(latName + " and " + lonName + " must be given together")
	}
	if !hasLat {
		return nil, nil
	}
	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil, apperrors.NewValidationError("coordinates are out of range")
	}
	return &coord, nil
}

// requireCoordinate is queryCoordinate for endpoints that need an origin
func requireCoordinate(r *http.Request, latName, lonName string) (geo.Coordinate, error) {
	coord, err := queryCoordinate(r, latName, lonName)
	if err != nil {
		return geo.Coordinate{}, err
	}
	if coord == nil {
		return geo.Coordinate{}, apperrors.NewValidationError(latName + " and " + lonName + " parameters are required")
	}
	return *coord, nil
}

// queryList reads a repeated or comma separated parameter
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, item := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
