package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/pkg/geo"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, filters entities.SearchFilters) (*entities.SearchResult, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchResult), args.Error(1)
}

type MockProximity struct {
	mock.Mock
}

func (m *MockProximity) NearbyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error) {
	args := m.Called(ctx, origin, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchResult), args.Error(1)
}

func (m *MockProximity) EmergencyVeterinarians(ctx context.Context, origin geo.Coordinate, radiusKm float64) (*entities.SearchResult, error) {
	args := m.Called(ctx, origin, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchResult), args.Error(1)
}

func (m *MockProximity) NearbyClinics(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]entities.ClinicResult, error) {
	args := m.Called(ctx, origin, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ClinicResult), args.Error(1)
}

func (m *MockProximity) Distance(from, to geo.Coordinate, unit geo.UnitSystem) (float64, string, error) {
	args := m.Called(from, to, unit)
	return args.Get(0).(float64), args.String(1), args.Error(2)
}

type MockOrigins struct {
	mock.Mock
}

func (m *MockOrigins) ResolveOrigin(ctx context.Context, coord *geo.Coordinate, place string) (*services.Origin, error) {
	args := m.Called(ctx, coord, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Origin), args.Error(1)
}

type MockClinicService struct {
	mock.Mock
}

func (m *MockClinicService) GetClinic(ctx context.Context, id string) (*entities.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clinic), args.Error(1)
}

func (m *MockClinicService) GetVeterinarian(ctx context.Context, id string) (*entities.Veterinarian, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Veterinarian), args.Error(1)
}

func (m *MockClinicService) OpenStatus(ctx context.Context, id string, at time.Time) (*entities.Clinic, entities.OpenStatus, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, entities.OpenStatus{}, args.Error(2)
	}
	return args.Get(0).(*entities.Clinic), args.Get(1).(entities.OpenStatus), args.Error(2)
}

func (m *MockClinicService) OpenClinics(ctx context.Context, at time.Time) ([]*entities.Clinic, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clinic), args.Error(1)
}

type MockPlaces struct {
	mock.Mock
}

func (m *MockPlaces) Geocode(ctx context.Context, place string) (*providers.GeocodedAddress, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.GeocodedAddress), args.Error(1)
}

func (m *MockPlaces) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*providers.GeocodedAddress, error) {
	args := m.Called(ctx, coord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.GeocodedAddress), args.Error(1)
}

func (m *MockPlaces) Autocomplete(ctx context.Context, query string, limit int) ([]*providers.Place, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*providers.Place), args.Error(1)
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}
