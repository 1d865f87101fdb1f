package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vetconnect/backend/internal/application/loaders"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

// Ranked pairs an item with its distance from a search origin
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// FilterByRadius returns the items within radiusKm of origin, nearest first.
// Items that locate reports as unplaced are skipped. Items at equal distance
// keep their input order.
func FilterByRadius[T any](origin geo.Coordinate, items []T, radiusKm float64, locate func(T) (geo.Coordinate, bool)) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		at, ok := locate(item)
		if !ok {
			continue
		}
		d := geo.DistanceKm(origin, at)
		if d <= radiusKm {
			ranked = append(ranked, Ranked[T]{Item: item, DistanceKm: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

// ProximityService ranks veterinarians and clinics by distance from an origin
type ProximityService struct {
	source   repositories.DataSource
	search   config.SearchConfig
	timeouts config.TimeoutsConfig
	metrics  *observability.Metrics
	now      Clock
}

// NewProximityService creates a new proximity service
func NewProximityService(source repositories.DataSource, search config.SearchConfig, timeouts config.TimeoutsConfig, metrics *observability.Metrics) *ProximityService {
	return &ProximityService{
		source:   source,
		search:   search,
		timeouts: timeouts,
		metrics:  metrics,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for open-now evaluation
func (s *ProximityService) WithClock(now Clock) *ProximityService {
	s.now = now
	return s
}

// JoinClinics resolves each veterinarian's clinic. It always returns one
// result per veterinarian, in input order. A clinic that does not exist
// yields a clinic_not_found gap; err is non-nil when any lookup failed for
// another reason, and the affected entries carry clinic_lookup_failed.
func (s *ProximityService) JoinClinics(ctx context.Context, vets []*entities.Veterinarian) ([]entities.JoinResult, error) {
	results := make([]entities.JoinResult, len(vets))
	if len(vets) == 0 {
		return results, nil
	}

	loader := s.clinicLoader(ctx)
	ids := make([]string, len(vets))
	for i, v := range vets {
		ids[i] = v.ClinicID
	}

	callCtx, cancel := withDeadline(ctx, s.timeouts.RemoteQuery)
	defer cancel()

	start := time.Now()
	clinics, errs := loader.LoadAll(callCtx, ids)
	observability.RecordRemoteCall(ctx, s.metrics, "clinics", time.Since(start), firstLookupError(errs))

	var lookupErr error
	for i, v := range vets {
		switch {
		case errs[i] == nil && clinics[i] != nil:
			results[i] = entities.Joined(v, clinics[i])
		case errs[i] == nil || apperrors.IsType(errs[i], apperrors.ErrorTypeNotFound):
			results[i] = entities.Missing(v, entities.MissingClinicNotFound, errs[i])
		default:
			results[i] = entities.Missing(v, entities.MissingClinicLookupFailed, errs[i])
			if lookupErr == nil {
				lookupErr = remoteError(callCtx, "clinics", errs[i])
			}
		}
	}
	return results, lookupErr
}

// RequireCoordinates turns joins whose clinic has no coordinates into
// clinic_without_coordinates gaps
func RequireCoordinates(results []entities.JoinResult) []entities.JoinResult {
	out := make([]entities.JoinResult, len(results))
	for i, r := range results {
		if j, ok := r.Joined(); ok && !j.Clinic.HasLocation() {
			out[i] = entities.Missing(j.Veterinarian, entities.MissingClinicNoCoordinates, nil)
			continue
		}
		out[i] = r
	}
	return out
}

// NearbyVeterinarians returns veterinarians whose clinic lies within radiusKm
// of origin, nearest first. A non-positive radius uses the configured default.
func (s *ProximityService) NearbyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error) {
	return s.nearby(ctx, "nearby", origin, s.radiusOrDefault(radiusKm, s.search.DefaultRadiusKm), nil)
}

// EmergencyVeterinarians returns emergency-capable veterinarians within
// radiusKm of origin. A non-positive radius uses the emergency default.
func (s *ProximityService) EmergencyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error) {
	return s.nearby(ctx, "emergency", origin, s.radiusOrDefault(radiusKm, s.search.EmergencyRadiusKm), (*entities.Veterinarian).HandlesEmergencies)
}

func (s *ProximityService) nearby(ctx context.Context, operation string, origin geo.Coordinate, radiusKm float64, keep func(*entities.Veterinarian) bool) (*entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProximityService."+operation,
		attribute.Float64("search.radius_km", radiusKm),
		attribute.String("data_source", s.source.Name()),
	)
	defer span.End()

	if !origin.Valid() {
		return nil, apperrors.NewValidationError("origin coordinates are out of range")
	}

	page, err := callRemote(ctx, s.metrics, "veterinarians", s.timeouts.RemoteQuery, func(ctx context.Context) (*repositories.CandidatePage, error) {
		return s.source.Veterinarians().Search(ctx, repositories.CandidateQuery{Limit: s.search.NearbyCandidateLimit})
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	candidates := page.Veterinarians
	if keep != nil {
		candidates = make([]*entities.Veterinarian, 0, len(page.Veterinarians))
		for _, v := range page.Veterinarians {
			if keep(v) {
				candidates = append(candidates, v)
			}
		}
	}

	joins, err := s.JoinClinics(ctx, candidates)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	joined, gaps := entities.PartitionJoins(RequireCoordinates(joins))
	logGaps(ctx, operation, gaps)

	ranked := rankJoined(origin, joined, radiusKm)
	items := rankedResults(ranked, s.now(), s.search.Units)

	observability.RecordSearch(ctx, s.metrics, operation, len(items), len(gaps))
	span.SetAttributes(attribute.Int("search.results", len(items)), attribute.Int("search.excluded", len(gaps)))

	return &entities.SearchResult{
		Items:      items,
		TotalCount: len(items),
		Excluded:   len(gaps),
	}, nil
}

// NearbyClinics returns active clinics within radiusKm of origin, nearest first
func (s *ProximityService) NearbyClinics(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]entities.ClinicResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProximityService.NearbyClinics")
	defer span.End()

	if !origin.Valid() {
		return nil, apperrors.NewValidationError("origin coordinates are out of range")
	}
	radiusKm = s.radiusOrDefault(radiusKm, s.search.DefaultRadiusKm)

	active := true
	clinics, err := callRemote(ctx, s.metrics, "clinics", s.timeouts.RemoteQuery, func(ctx context.Context) ([]*entities.Clinic, error) {
		return s.source.Clinics().List(ctx, repositories.ClinicFilter{IsActive: &active, Limit: s.search.NearbyCandidateLimit})
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	ranked := FilterByRadius(origin, clinics, radiusKm, func(c *entities.Clinic) (geo.Coordinate, bool) {
		if !c.HasLocation() {
			return geo.Coordinate{}, false
		}
		return *c.Location, true
	})

	now := s.now()
	results := make([]entities.ClinicResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, entities.ClinicResult{
			Clinic:        r.Item,
			DistanceKm:    r.DistanceKm,
			DistanceLabel: geo.FormatDistance(r.DistanceKm, s.search.Units),
			OpenNow:       r.Item.IsOpenAt(now),
		})
	}

	observability.RecordSearch(ctx, s.metrics, "nearby_clinics", len(results), 0)
	return results, nil
}

func (s *ProximityService) radiusOrDefault(radiusKm, fallback float64) float64 {
	if radiusKm > 0 {
		return radiusKm
	}
	return fallback
}

func (s *ProximityService) clinicLoader(ctx context.Context) *loaders.ClinicLoader {
	if l := loaders.For(ctx); l != nil && l.ClinicLoader != nil {
		return l.ClinicLoader
	}
	return loaders.NewClinicLoader(s.source.Clinics())
}

// Distance measures between two points and formats the result. An empty
// unit uses the configured unit system.
func (s *ProximityService) Distance(from, to geo.Coordinate, unit geo.UnitSystem) (float64, string, error) {
	if !from.Valid() || !to.Valid() {
		return 0, "", apperrors.NewValidationError("coordinates are out of range")
	}
	if unit == "" {
		unit = s.search.Units
	}
	km := geo.DistanceKm(from, to)
	return km, geo.FormatDistance(km, unit), nil
}

func rankedResults(ranked []Ranked[entities.JoinedVeterinarian], now time.Time, units geo.UnitSystem) []entities.VeterinarianResult {
	items := make([]entities.VeterinarianResult, 0, len(ranked))
	for _, r := range ranked {
		distance := r.DistanceKm
		open := r.Item.Clinic.IsOpenAt(now)
		items = append(items, entities.VeterinarianResult{
			Veterinarian:  r.Item.Veterinarian,
			Clinic:        r.Item.Clinic,
			DistanceKm:    &distance,
			DistanceLabel: geo.FormatDistance(distance, units),
			OpenNow:       &open,
		})
	}
	return items
}

func rankJoined(origin geo.Coordinate, joined []entities.JoinedVeterinarian, radiusKm float64) []Ranked[entities.JoinedVeterinarian] {
	return FilterByRadius(origin, joined, radiusKm, func(j entities.JoinedVeterinarian) (geo.Coordinate, bool) {
		if !j.Clinic.HasLocation() {
			return geo.Coordinate{}, false
		}
		return *j.Clinic.Location, true
	})
}

func firstLookupError(errs []error) error {
	for _, err := range errs {
		if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return err
		}
	}
	return nil
}

func logGaps(ctx context.Context, operation string, gaps []entities.MissingClinic) {
	if len(gaps) == 0 {
		return
	}
	logger := observability.LoggerFromContext(ctx)
	for _, g := range gaps {
		level := zerolog.DebugLevel
		if g.Reason == entities.MissingClinicLookupFailed {
			level = zerolog.WarnLevel
		}
		logger.WithLevel(level).
			Err(g.Err).
			Str("operation", operation).
			Str("veterinarian_id", g.Veterinarian.ID).
			Str("clinic_id", g.ClinicID).
			Str("reason", string(g.Reason)).
			Msg("veterinarian excluded from results")
	}
}
