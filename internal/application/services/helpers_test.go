package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetconnect/backend/internal/adapters/fixture"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/pkg/config"
	"github.com/vetconnect/backend/pkg/geo"
)

var downtownSF = geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultRadiusKm:      25,
		EmergencyRadiusKm:    15,
		DefaultPageSize:      20,
		MaxPageSize:          100,
		Units:                geo.UnitMetric,
		NearbyCandidateLimit: 500,
	}
}

func testTimeouts() config.TimeoutsConfig {
	return config.TimeoutsConfig{
		RemoteQuery:    time.Second,
		Geocode:        time.Second,
		PositionLookup: time.Second,
	}
}

func loadFixture(t *testing.T) *fixture.Source {
	t.Helper()
	source, err := fixture.Load()
	require.NoError(t, err)
	return source
}

// mondayAt returns the given Monday wall-clock time in San Francisco, as UTC
func mondayAt(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return time.Date(2024, time.January, 15, hour, minute, 0, 0, la).UTC()
}

func ids(items []entities.VeterinarianResult) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Veterinarian.ID
	}
	return out
}

// Mocks

type stubSource struct {
	vets    repositories.VeterinarianRepository
	clinics repositories.ClinicRepository
}

func (s *stubSource) Name() string { return "stub" }
func (s *stubSource) Veterinarians() repositories.VeterinarianRepository { return s.vets }
func (s *stubSource) Clinics() repositories.ClinicRepository { return s.clinics }

type MockVeterinarianRepository struct {
	mock.Mock
}

func (m *MockVeterinarianRepository) GetByID(ctx context.Context, id string) (*entities.Veterinarian, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Veterinarian), args.Error(1)
}

func (m *MockVeterinarianRepository) Search(ctx context.Context, query repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.CandidatePage), args.Error(1)
}

func (m *MockVeterinarianRepository) List(ctx context.Context, filter repositories.VeterinarianFilter) ([]*entities.Veterinarian, error) {
	return nil, nil
}

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clinic), args.Error(1)
}

func (m *MockClinicRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Clinic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clinic), args.Error(1)
}

func (m *MockClinicRepository) List(ctx context.Context, filter repositories.ClinicFilter) ([]*entities.Clinic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clinic), args.Error(1)
}

// blockingVeterinarians never answers until the context ends
type blockingVeterinarians struct {
	MockVeterinarianRepository
}

func (b *blockingVeterinarians) Search(ctx context.Context, query repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
