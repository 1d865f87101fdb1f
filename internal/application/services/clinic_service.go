package services

import (
	"context"
	"time"

	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

// ClinicService handles clinic lookups and opening-hours evaluation
type ClinicService struct {
	source   repositories.DataSource
	timeouts config.TimeoutsConfig
	metrics  *observability.Metrics
	scanSize int
}

// NewClinicService creates a new clinic service
func NewClinicService(source repositories.DataSource, search config.SearchConfig, timeouts config.TimeoutsConfig, metrics *observability.Metrics) *ClinicService {
	return &ClinicService{
		source:   source,
		timeouts: timeouts,
		metrics:  metrics,
		scanSize: search.NearbyCandidateLimit,
	}
}

// GetClinic retrieves a clinic by ID
func (s *ClinicService) GetClinic(ctx context.Context, id string) (*entities.Clinic, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("clinic id is required")
	}
	return callRemote(ctx, s.metrics, "clinics", s.timeouts.RemoteQuery, func(ctx context.Context) (*entities.Clinic, error) {
		return s.source.Clinics().GetByID(ctx, id)
	})
}

// GetVeterinarian retrieves a veterinarian by ID
func (s *ClinicService) GetVeterinarian(ctx context.Context, id string) (*entities.Veterinarian, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("veterinarian id is required")
	}
	return callRemote(ctx, s.metrics, "veterinarians", s.timeouts.RemoteQuery, func(ctx context.Context) (*entities.Veterinarian, error) {
		return s.source.Veterinarians().GetByID(ctx, id)
	})
}

// OpenStatus evaluates the clinic's hours at the given instant in the clinic's time zone
func (s *ClinicService) OpenStatus(ctx context.Context, id string, at time.Time) (*entities.Clinic, entities.OpenStatus, error) {
	clinic, err := s.GetClinic(ctx, id)
	if err != nil {
		return nil, entities.OpenStatus{}, err
	}
	return clinic, clinic.Hours.StatusAt(clinic.LocalTime(at)), nil
}

// OpenClinics lists active clinics that are open at the given instant
func (s *ClinicService) OpenClinics(ctx context.Context, at time.Time) ([]*entities.Clinic, error) {
	active := true
	clinics, err := callRemote(ctx, s.metrics, "clinics", s.timeouts.RemoteQuery, func(ctx context.Context) ([]*entities.Clinic, error) {
		return s.source.Clinics().List(ctx, repositories.ClinicFilter{IsActive: &active, Limit: s.scanSize})
	})
	if err != nil {
		return nil, err
	}

	open := make([]*entities.Clinic, 0, len(clinics))
	for _, c := range clinics {
		if c.IsOpenAt(at) {
			open = append(open, c)
		}
	}
	return open, nil
}
