package services

import (
	"context"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

// SearchService composes the remote candidate query with text, specialty,
// emergency, open-now and proximity refinement
type SearchService struct {
	source    repositories.DataSource
	proximity *ProximityService
	analytics *SearchAnalyticsService
	search    config.SearchConfig
	timeouts  config.TimeoutsConfig
	metrics   *observability.Metrics
	now       Clock
}

// NewSearchService creates a new search service. analytics may be nil.
func NewSearchService(
	source repositories.DataSource,
	proximity *ProximityService,
	analytics *SearchAnalyticsService,
	search config.SearchConfig,
	timeouts config.TimeoutsConfig,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		source:    source,
		proximity: proximity,
		analytics: analytics,
		search:    search,
		timeouts:  timeouts,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for open-now evaluation
func (s *SearchService) WithClock(now Clock) *SearchService {
	s.now = now
	return s
}

// Search runs one page of a veterinarian search.
//
// The remote query applies only the rating and experience floors and the
// page bounds. Text, specialty, emergency and open-now filters refine the
// returned page, so TotalCount is the remote count before refinement and a
// page may hold fewer than Limit items while HasMore is true.
func (s *SearchService) Search(ctx context.Context, filters entities.SearchFilters) (*entities.SearchResult, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "SearchService.Search",
		attribute.String("search.query", filters.Query),
		attribute.String("data_source", s.source.Name()),
	)
	defer span.End()

	filters, err := s.normalize(filters)
	if err != nil {
		return nil, err
	}

	page, err := callRemote(ctx, s.metrics, "veterinarians", s.timeouts.RemoteQuery, func(ctx context.Context) (*repositories.CandidatePage, error) {
		return s.source.Veterinarians().Search(ctx, repositories.CandidateQuery{
			MinRating:     filters.MinRating,
			MinExperience: filters.MinExperience,
			Limit:         filters.Limit,
			Offset:        filters.Offset,
		})
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	candidates := make([]*entities.Veterinarian, 0, len(page.Veterinarians))
	for _, v := range page.Veterinarians {
		if !v.MatchesText(filters.Query) || !v.HasAnySpecialty(filters.Specialties) {
			continue
		}
		if filters.EmergencyOnly && !v.HandlesEmergencies() {
			continue
		}
		candidates = append(candidates, v)
	}

	joins, err := s.proximity.JoinClinics(ctx, candidates)
	if err != nil {
		if clinicRequired(filters) {
			observability.RecordError(span, err)
			return nil, err
		}
		logGaps(ctx, "search", lookupFailures(joins))
	}

	items, gaps := s.refine(filters, joins)
	logGaps(ctx, "search", gaps)

	result := &entities.SearchResult{
		Items:      items,
		TotalCount: page.TotalCount,
		HasMore:    filters.Offset+len(page.Veterinarians) < page.TotalCount,
		Excluded:   len(gaps),
	}

	observability.RecordSearch(ctx, s.metrics, "search", len(items), len(gaps))
	span.SetAttributes(
		attribute.Int("search.results", len(items)),
		attribute.Int("search.total", page.TotalCount),
		attribute.Int("search.excluded", len(gaps)),
	)

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, s.searchEvent(filters, result, time.Since(start)))
	}

	return result, nil
}

// refine applies the steps that need the clinic: open-now, distance and ordering
func (s *SearchService) refine(filters entities.SearchFilters, joins []entities.JoinResult) ([]entities.VeterinarianResult, []entities.MissingClinic) {
	var gaps []entities.MissingClinic
	now := s.now()

	if filters.Origin != nil {
		joined, missing := entities.PartitionJoins(RequireCoordinates(joins))
		gaps = append(gaps, missing...)
		if filters.OpenNow {
			joined = openJoined(joined, now)
		}

		ranked := rankJoined(*filters.Origin, joined, filters.RadiusKm)
		items := rankedResults(ranked, now, s.search.Units)
		if filters.SortBy != entities.SortByDefault && filters.SortBy != entities.SortByDistance {
			sortResults(items, filters.SortBy)
		}
		return items, gaps
	}

	items := make([]entities.VeterinarianResult, 0, len(joins))
	for _, r := range joins {
		if j, ok := r.Joined(); ok {
			open := j.Clinic.IsOpenAt(now)
			if filters.OpenNow && !open {
				continue
			}
			items = append(items, entities.VeterinarianResult{Veterinarian: j.Veterinarian, Clinic: j.Clinic, OpenNow: &open})
			continue
		}

		m, _ := r.Missing()
		if filters.OpenNow {
			// opening hours are unknown without a clinic
			gaps = append(gaps, m)
			continue
		}
		items = append(items, entities.VeterinarianResult{Veterinarian: m.Veterinarian})
	}

	sortResults(items, filters.SortBy)
	return items, gaps
}

func (s *SearchService) normalize(filters entities.SearchFilters) (entities.SearchFilters, error) {
	if math.IsNaN(filters.MinRating) || filters.MinRating < 0 || filters.MinRating > 5 {
		return filters, apperrors.NewValidationError("min_rating must be between 0 and 5")
	}
	if filters.MinExperience < 0 {
		return filters, apperrors.NewValidationError("min_experience must not be negative")
	}
	if filters.Offset < 0 {
		return filters, apperrors.NewValidationError("offset must not be negative")
	}
	if filters.Limit <= 0 {
		filters.Limit = s.search.DefaultPageSize
	}
	if filters.Limit > s.search.MaxPageSize {
		filters.Limit = s.search.MaxPageSize
	}

	switch filters.SortBy {
	case entities.SortByDefault, entities.SortByRating, entities.SortByExperience:
	case entities.SortByDistance:
		if filters.Origin == nil {
			return filters, apperrors.NewValidationError("sorting by distance requires a location")
		}
	default:
		return filters, apperrors.NewValidationError("sort must be one of distance, rating, experience")
	}

	if math.IsNaN(filters.RadiusKm) || math.IsInf(filters.RadiusKm, 0) {
		return filters, apperrors.NewValidationError("radius must be a finite number")
	}
	if filters.Origin != nil {
		if !filters.Origin.Valid() {
			return filters, apperrors.NewValidationError("origin coordinates are out of range")
		}
		if filters.RadiusKm <= 0 {
			filters.RadiusKm = s.search.DefaultRadiusKm
		}
	}
	return filters, nil
}

func (s *SearchService) searchEvent(filters entities.SearchFilters, result *entities.SearchResult, latency time.Duration) *entities.SearchEvent {
	event := &entities.SearchEvent{
		Query:         filters.Query,
		Specialties:   filters.Specialties,
		EmergencyOnly: filters.EmergencyOnly,
		OpenNow:       filters.OpenNow,
		RadiusKm:      filters.RadiusKm,
		ResultCount:   len(result.Items),
		TotalCount:    result.TotalCount,
		ExcludedCount: result.Excluded,
		LatencyMs:     int(latency.Milliseconds()),
		Source:        s.source.Name(),
	}
	if filters.Origin != nil {
		lat, lon := filters.Origin.Latitude, filters.Origin.Longitude
		event.UserLatitude, event.UserLongitude = &lat, &lon
	}
	return event
}

// clinicRequired reports whether a result cannot be produced without its clinic
func clinicRequired(filters entities.SearchFilters) bool {
	return filters.Origin != nil || filters.OpenNow
}

// lookupFailures returns the joins whose clinic could not be fetched. Rating
// ordered searches still list these veterinarians, without clinic data.
func lookupFailures(joins []entities.JoinResult) []entities.MissingClinic {
	var out []entities.MissingClinic
	for _, r := range joins {
		if m, ok := r.Missing(); ok && m.Reason == entities.MissingClinicLookupFailed {
			out = append(out, m)
		}
	}
	return out
}

func openJoined(joined []entities.JoinedVeterinarian, now time.Time) []entities.JoinedVeterinarian {
	out := make([]entities.JoinedVeterinarian, 0, len(joined))
	for _, j := range joined {
		if j.Clinic.IsOpenAt(now) {
			out = append(out, j)
		}
	}
	return out
}

// sortResults orders by rating or experience, highest first. The default
// order without an origin is rating.
func sortResults(items []entities.VeterinarianResult, by entities.SortOrder) {
	less := func(i, j int) bool {
		return items[i].Veterinarian.Rating > items[j].Veterinarian.Rating
	}
	if by == entities.SortByExperience {
		less = func(i, j int) bool {
			return items[i].Veterinarian.ExperienceYears > items[j].Veterinarian.ExperienceYears
		}
	}
	sort.SliceStable(items, less)
}
