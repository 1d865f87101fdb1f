package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/pkg/geo"
)

// VeterinarianSearcher runs composed veterinarian searches
type VeterinarianSearcher interface {
	Search(ctx context.Context, filters entities.SearchFilters) (*entities.SearchResult, error)
}

// ProximityFinder ranks veterinarians and clinics around an origin
type ProximityFinder interface {
	NearbyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error)
	EmergencyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error)
	NearbyClinics(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]entities.ClinicResult, error)
	Distance(from, to geo.Coordinate, unit geo.UnitSystem) (float64, string, error)
}

// OriginResolver turns coordinates or a place name into a search origin
type OriginResolver interface {
	ResolveOrigin(ctx context.Context, coord *geo.Coordinate, place string) (*services.Origin, error)
}

// VeterinarianReader fetches single veterinarians
type VeterinarianReader interface {
	GetVeterinarian(ctx context.Context, id string) (*entities.Veterinarian, error)
}

// VeterinarianHandler handles veterinarian search endpoints
type VeterinarianHandler struct {
	searcher  VeterinarianSearcher
	proximity ProximityFinder
	origins   OriginResolver
	reader    VeterinarianReader
}

// NewVeterinarianHandler creates a new veterinarian handler
func NewVeterinarianHandler(searcher VeterinarianSearcher, proximity ProximityFinder, origins OriginResolver, reader VeterinarianReader) *VeterinarianHandler {
	return &VeterinarianHandler{
		searcher:  searcher,
		proximity: proximity,
		origins:   origins,
		reader:    reader,
	}
}

// SearchVeterinarians handles GET /api/veterinarians/search
func (h *VeterinarianHandler) SearchVeterinarians(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	coord, err := queryCoordinate(r, "lat", "lon")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	origin, err := h.origins.ResolveOrigin(r.Context(), coord, r.URL.Query().Get("near"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if origin != nil {
		filters.Origin = &origin.Coordinate
	}

	result, err := h.searcher.Search(r.Context(), filters)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, searchResponse{
		SearchResult: result,
		Origin:       origin,
	})
}

// NearbyVeterinarians handles GET /api/veterinarians/nearby
func (h *VeterinarianHandler) NearbyVeterinarians(w http.ResponseWriter, r *http.Request) {
	h.proximitySearch(w, r, h.proximity.NearbyVeterinarians)
}

// EmergencyVeterinarians handles GET /api/veterinarians/emergency
func (h *VeterinarianHandler) EmergencyVeterinarians(w http.ResponseWriter, r *http.Request) {
	h.proximitySearch(w, r, h.proximity.EmergencyVeterinarians)
}

func (h *VeterinarianHandler) proximitySearch(w http.ResponseWriter, r *http.Request, find func(context.Context, geo.Coordinate, float64) (*entities.SearchResult, error)) {
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

	result, err := find(r.Context(), origin, radius)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetVeterinarian handles GET /api/veterinarians/{id}
func (h *VeterinarianHandler) GetVeterinarian(w http.ResponseWriter, r *http.Request) {
	vetID := r.PathValue("id")
	if vetID == "" {
		respondWithError(w, http.StatusBadRequest, "veterinarian ID is required")
		return
	}

	vet, err := h.reader.GetVeterinarian(r.Context(), vetID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, vet)
}

type searchResponse struct {
	*entities.SearchResult
	Origin *services.Origin `json:"origin,omitempty"`
}

func parseSearchFilters(r *http.Request) (entities.SearchFilters, error) {
	filters := entities.SearchFilters{
		Query:       strings.TrimSpace(r.URL.Query().Get("q")),
		Specialties: queryList(r, "specialty"),
		SortBy:      entities.SortOrder(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))),
	}

	var err error
	if filters.MinRating, _, err = queryFloat(r, "min_rating"); err != nil {
		return filters, err
	}
	if filters.MinExperience, err = queryInt(r, "min_experience"); err != nil {
		return filters, err
	}
	if filters.EmergencyOnly, err = queryBool(r, "emergency"); err != nil {
		return filters, err
	}
	if filters.OpenNow, err = queryBool(r, "open_now"); err != nil {
		return filters, err
	}
	if filters.RadiusKm, _, err = queryFloat(r, "radius"); err != nil {
		return filters, err
	}
	if filters.Limit, err = queryInt(r, "limit"); err != nil {
		return filters, err
	}
	if filters.Offset, err = queryInt(r, "offset"); err != nil {
		return filters, err
	}
	return filters, nil
}
