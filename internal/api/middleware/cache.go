package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
)

// CacheKeyPrefix namespaces cached HTTP responses
const CacheKeyPrefix = "http:cache:"

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool

	// PerMinute routes report open_now. Their entries are keyed by the
	// current wall-clock minute, the granularity of opening hours.
	PerMinute bool
}

// DefaultRouteCacheConfigs covers the read-only endpoints. Keys are exact
// paths or path.Match globs. Listing routes that report open_now are cached
// per minute; the open clinics list and clinic status are left uncached.
func DefaultRouteCacheConfigs() map[string]CacheConfig {
	return map[string]CacheConfig{
		"/api/veterinarians/search":    {TTLSeconds: 60, Enabled: true, PerMinute: true},
		"/api/veterinarians/nearby":    {TTLSeconds: 60, Enabled: true, PerMinute: true},
		"/api/veterinarians/emergency": {TTLSeconds: 30, Enabled: true, PerMinute: true},
		"/api/veterinarians/*":         {TTLSeconds: 600, Enabled: true},
		"/api/clinics/nearby":          {TTLSeconds: 60, Enabled: true, PerMinute: true},
		"/api/clinics/open":            {Enabled: false},
		"/api/clinics/*":               {TTLSeconds: 600, Enabled: true},
		"/api/geocode":                 {TTLSeconds: 3600, Enabled: true},
		"/api/geocode/*":               {TTLSeconds: 3600, Enabled: true},
	}
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
	globs        []string
	timeout      time.Duration
	metrics      *observability.Metrics
	now          func() time.Time
}

// NewCacheMiddleware creates a cache middleware. timeout bounds each cache
// round trip; a slow cache falls through to the handler.
func NewCacheMiddleware(cache providers.CacheProvider, configs map[string]CacheConfig, timeout time.Duration, metrics *observability.Metrics) *CacheMiddleware {
	if configs == nil {
		configs = DefaultRouteCacheConfigs()
	}

	var globs []string
	for pattern := range configs {
		if strings.ContainsAny(pattern, "*?[") {
			globs = append(globs, pattern)
		}
	}
	sort.Strings(globs)

	return &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
		globs:        globs,
		timeout:      timeout,
		metrics:      metrics,
		now:          time.Now,
	}
}

// WithClock replaces the clock used for per-minute keys
func (m *CacheMiddleware) WithClock(now func() time.Time) *CacheMiddleware {
	m.now = now
	return m
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled || config.TTLSeconds <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.LoggerFromContext(r.Context())
		cacheKey := m.generateCacheKey(r, config)

		getCtx, cancel := m.withTimeout(r.Context())
		cached, err := m.cache.Get(getCtx, cacheKey)
		cancel()
		if err == nil {
			observability.RecordCacheHit(r.Context(), m.metrics, "http")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		observability.RecordCacheMiss(r.Context(), m.metrics, "http")
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only successful responses are stored
		if recorder.statusCode != http.StatusOK || recorder.body.Len() == 0 {
			return
		}

		setCtx, cancel := m.withTimeout(context.WithoutCancel(r.Context()))
		defer cancel()
		ttl := config.TTLSeconds
		if config.PerMinute && ttl > 60 {
			ttl = 60
		}
		if err := m.cache.Set(setCtx, cacheKey, recorder.body.Bytes(), ttl); err != nil {
			logger.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
		}
	})
}

// InvalidateAll drops every cached response
func (m *CacheMiddleware) InvalidateAll(ctx context.Context) error {
	if m.cache == nil {
		return nil
	}
	return m.cache.DeletePattern(ctx, CacheKeyPrefix+"*")
}

func (m *CacheMiddleware) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(urlPath string) CacheConfig {
	if config, exists := m.routeConfigs[urlPath]; exists {
		return config
	}

	// Globs cover dynamic routes such as /api/clinics/{id}
	for _, pattern := range m.globs {
		if ok, _ := path.Match(pattern, urlPath); ok {
			return m.routeConfigs[pattern]
		}
	}

	return CacheConfig{Enabled: false}
}

// generateCacheKey hashes the method, path and normalized query, plus the
// current minute for per-minute routes
func (m *CacheMiddleware) generateCacheKey(r *http.Request, config CacheConfig) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)

	// Encode sorts by parameter name
	if query := r.URL.Query().Encode(); query != "" {
		key += "?" + query
	}
	if config.PerMinute {
		key += fmt.Sprintf("@%d", m.now().Unix()/60)
	}

	hash := sha256.Sum256([]byte(key))
	return CacheKeyPrefix + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
