package geolocation

import (
	"fmt"
	"strings"

	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/pkg/config"
)

// Provider names accepted by GEOLOCATION_PROVIDER
const (
	ProviderMock   = "mock"
	ProviderMapbox = "mapbox"
)

// NewProvider selects the geocoding provider named in configuration
func NewProvider(cfg config.GeolocationConfig, cache providers.CacheProvider) (providers.GeolocationProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderMock:
		return NewMockGeolocationProvider(), nil
	case ProviderMapbox:
		return NewMapboxGeolocationProviderWithOptions(cfg.APIKey, cache, cfg.BaseURL, nil), nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}
}
