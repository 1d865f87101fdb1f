package routes

import (
	"net/http"

	"github.com/vetconnect/backend/internal/api/handlers"
	"github.com/vetconnect/backend/internal/api/middleware"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	veterinarianHandler *handlers.VeterinarianHandler
	clinicHandler       *handlers.ClinicHandler
	geolocationHandler  *handlers.GeolocationHandler
	distanceHandler     *handlers.DistanceHandler
	analyticsHandler    *handlers.AnalyticsHandler
	healthHandler       *handlers.HealthHandler

	clinics         repositories.ClinicRepository
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// Options carries the optional pieces of the middleware chain
type Options struct {
	// Clinics backs the per-request clinic loaders; nil skips them
	Clinics         repositories.ClinicRepository
	CacheMiddleware *middleware.CacheMiddleware
	AllowedOrigins  []string
	Metrics         *observability.Metrics
}

// NewRouter creates a new router. A nil analytics handler leaves the
// analytics endpoint unregistered.
func NewRouter(
	veterinarianHandler *handlers.VeterinarianHandler,
	clinicHandler *handlers.ClinicHandler,
	geolocationHandler *handlers.GeolocationHandler,
	distanceHandler *handlers.DistanceHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	opts Options,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		veterinarianHandler: veterinarianHandler,
		clinicHandler:       clinicHandler,
		geolocationHandler:  geolocationHandler,
		distanceHandler:     distanceHandler,
		analyticsHandler:    analyticsHandler,
		healthHandler:       healthHandler,

		clinics:         opts.Clinics,
		cacheMiddleware: opts.CacheMiddleware,
		allowedOrigins:  opts.AllowedOrigins,
		metrics:         opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Veterinarian endpoints
	r.mux.HandleFunc("GET /api/veterinarians/search", r.veterinarianHandler.SearchVeterinarians)
	r.mux.HandleFunc("GET /api/veterinarians/nearby", r.veterinarianHandler.NearbyVeterinarians)
	r.mux.HandleFunc("GET /api/veterinarians/emergency", r.veterinarianHandler.EmergencyVeterinarians)
	r.mux.HandleFunc("GET /api/veterinarians/{id}", r.veterinarianHandler.GetVeterinarian)

	// Clinic endpoints
	r.mux.HandleFunc("GET /api/clinics/nearby", r.clinicHandler.NearbyClinics)
	r.mux.HandleFunc("GET /api/clinics/open", r.clinicHandler.ListOpenClinics)
	r.mux.HandleFunc("GET /api/clinics/{id}", r.clinicHandler.GetClinic)
	r.mux.HandleFunc("GET /api/clinics/{id}/status", r.clinicHandler.GetClinicStatus)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/geocode/reverse", r.geolocationHandler.ReverseGeocode)
	r.mux.HandleFunc("GET /api/geocode/autocomplete", r.geolocationHandler.Autocomplete)

	r.mux.HandleFunc("GET /api/distance", r.distanceHandler.GetDistance)

	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Observability sits directly on the mux so it sees the matched pattern.
	// CORS is outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	if r.clinics != nil {
		handler = middleware.LoadersMiddleware(r.clinics)(handler)
	}

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
