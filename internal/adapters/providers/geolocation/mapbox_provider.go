package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/domain/providers"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

const (
	mapboxGeocodeURL        = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	defaultGeocodeCacheTTL  = 60 * 60 * 24 * 30
	defaultReverseCacheTTL  = 60 * 60 * 24 * 30
	defaultSuggestCacheTTL  = 60 * 60 * 24
	defaultHTTPTimeout      = 8 * time.Second
	defaultAutocompleteSize = 5
	maxAutocompleteSize     = 10
)

// MapboxGeolocationProvider implements GeolocationProvider on the Mapbox
// forward and reverse geocoding endpoints, which answer with a GeoJSON
// feature list.
type MapboxGeolocationProvider struct {
	accessToken string
	httpClient  *http.Client
	cache       providers.CacheProvider
	baseURL     string
}

var _ providers.GeolocationProvider = (*MapboxGeolocationProvider)(nil)

// NewMapboxGeolocationProvider creates a provider against the public Mapbox API
func NewMapboxGeolocationProvider(accessToken string, cache providers.CacheProvider) *MapboxGeolocationProvider {
	return NewMapboxGeolocationProviderWithOptions(accessToken, cache, mapboxGeocodeURL, nil)
}

// NewMapboxGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewMapboxGeolocationProviderWithOptions(accessToken string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *MapboxGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = mapboxGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MapboxGeolocationProvider{
		accessToken: accessToken,
		httpClient:  httpClient,
		cache:       cache,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// Geocode resolves a free-text place to its most relevant feature
func (m *MapboxGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	cacheKey := "geo:mapbox:geocode:" + hashKey(strings.ToLower(trimmed))
	var cached providers.GeocodedAddress
	if m.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	resp, err := m.doRequest(ctx, trimmed, url.Values{"limit": []string{"1"}})
	if err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no place found for %q", trimmed))
	}

	addr := resp.Features[0].toAddress()
	m.writeCache(ctx, cacheKey, addr, defaultGeocodeCacheTTL)
	return addr, nil
}

// ReverseGeocode resolves coordinates to the closest address feature
func (m *MapboxGeolocationProvider) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*providers.GeocodedAddress, error) {
	if !coord.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	cacheKey := "geo:mapbox:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", coord.Latitude, coord.Longitude))
	var cached providers.GeocodedAddress
	if m.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	// Mapbox expects longitude first
	query := strconv.FormatFloat(coord.Longitude, 'f', 6, 64) + "," + strconv.FormatFloat(coord.Latitude, 'f', 6, 64)
	resp, err := m.doRequest(ctx, query, url.Values{"limit": []string{"1"}, "types": []string{"address,poi,place"}})
	if err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, apperrors.NewNotFoundError("no address found for coordinates")
	}

	addr := resp.Features[0].toAddress()
	m.writeCache(ctx, cacheKey, addr, defaultReverseCacheTTL)
	return addr, nil
}

// Autocomplete returns up to limit suggestions for a partial place name
func (m *MapboxGeolocationProvider) Autocomplete(ctx context.Context, query string, limit int) ([]*providers.Place, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []*providers.Place{}, nil
	}
	if limit <= 0 {
		limit = defaultAutocompleteSize
	}
	if limit > maxAutocompleteSize {
		limit = maxAutocompleteSize
	}

	cacheKey := fmt.Sprintf("geo:mapbox:suggest:%d:%s", limit, hashKey(strings.ToLower(trimmed)))
	var cached []*providers.Place
	if m.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	resp, err := m.doRequest(ctx, trimmed, url.Values{
		"autocomplete": []string{"true"},
		"limit":        []string{strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	places := make([]*providers.Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		coord, ok := f.coordinate()
		if !ok {
			continue
		}
		places = append(places, &providers.Place{
			ID:          f.ID,
			Name:        f.Text,
			Address:     f.PlaceName,
			Coordinates: coord,
			PlaceType:   strings.Join(f.PlaceType, ","),
			Relevance:   f.Relevance,
		})
	}

	m.writeCache(ctx, cacheKey, places, defaultSuggestCacheTTL)
	return places, nil
}

func (m *MapboxGeolocationProvider) doRequest(ctx context.Context, query string, params url.Values) (*mapboxResponse, error) {
	if m.accessToken == "" {
		return nil, apperrors.NewUnavailableError("mapbox access token is not configured", nil)
	}

	params.Set("access_token", m.accessToken)
	reqURL := fmt.Sprintf("%s/%s.json?%s", m.baseURL, url.PathEscape(query), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build geocode request", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("geocode request returned status %d", resp.StatusCode),
			fmt.Errorf("mapbox: %s", failure.Message),
		)
	}

	var payload mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode geocode response", err)
	}

	return &payload, nil
}

func (m *MapboxGeolocationProvider) readCache(ctx context.Context, key string, into interface{}) bool {
	if m.cache == nil {
		return false
	}
	cached, err := m.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return false
	}
	return json.Unmarshal(cached, into) == nil
}

func (m *MapboxGeolocationProvider) writeCache(ctx context.Context, key string, value interface{}, ttl int) {
	if m.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := m.cache.Set(ctx, key, payload, ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("failed to cache geocode result")
	}
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type mapboxResponse struct {
	Type     string          `json:"type"`
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	PlaceName string          `json:"place_name"`
	PlaceType []string        `json:"place_type"`
	Relevance float64         `json:"relevance"`
	Address   string          `json:"address,omitempty"`
	Center    []float64       `json:"center"`
	Context   []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code,omitempty"`
}

// coordinate converts the [longitude, latitude] center
func (f mapboxFeature) coordinate() (geo.Coordinate, bool) {
	if len(f.Center) != 2 {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: f.Center[1], Longitude: f.Center[0]}, true
}

// contextText returns the text of the first context entry of the given kind
// ("place", "region", "postcode", "country")
func (f mapboxFeature) contextText(kind string) string {
	for _, c := range f.Context {
		if strings.HasPrefix(c.ID, kind+".") {
			return c.Text
		}
	}
	return ""
}

func (f mapboxFeature) hasType(kind string) bool {
	for _, t := range f.PlaceType {
		if t == kind {
			return true
		}
	}
	return false
}

func (f mapboxFeature) toAddress() *providers.GeocodedAddress {
	coord, _ := f.coordinate()
	addr := &providers.GeocodedAddress{
		FormattedAddress: f.PlaceName,
		City:             f.contextText("place"),
		State:            f.contextText("region"),
		ZipCode:          f.contextText("postcode"),
		Country:          f.contextText("country"),
		Coordinates:      coord,
	}

	switch {
	case f.hasType("address"):
		addr.Street = strings.TrimSpace(f.Address + " " + f.Text)
	case f.hasType("place"):
		addr.City = f.Text
	case f.hasType("region"):
		addr.State = f.Text
	}

	return addr
}
