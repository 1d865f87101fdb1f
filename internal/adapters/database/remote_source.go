package database

import (
	"context"

	"github.com/vetconnect/backend/internal/domain/repositories"
)

// RemoteSource serves veterinarians and clinics from PostgreSQL. When an
// index is attached the candidate query runs against it instead.
type RemoteSource struct {
	name          string
	veterinarians repositories.VeterinarianRepository
	clinics       repositories.ClinicRepository
}

var _ repositories.DataSource = (*RemoteSource)(nil)

// NewRemoteSource composes a data source from PostgreSQL-backed repositories
func NewRemoteSource(veterinarians repositories.VeterinarianRepository, clinics repositories.ClinicRepository) *RemoteSource {
	return &RemoteSource{name: "postgres", veterinarians: veterinarians, clinics: clinics}
}

// WithIndex returns a copy whose candidate query is answered by index
func (s *RemoteSource) WithIndex(index repositories.VeterinarianSearchRepository) *RemoteSource {
	return &RemoteSource{
		name:          "typesense",
		veterinarians: &indexedVeterinarians{VeterinarianRepository: s.veterinarians, index: index},
		clinics:       s.clinics,
	}
}

// Name identifies the source
func (s *RemoteSource) Name() string { return s.name }

// Veterinarians returns the veterinarian repository
func (s *RemoteSource) Veterinarians() repositories.VeterinarianRepository { return s.veterinarians }

// Clinics returns the clinic repository
func (s *RemoteSource) Clinics() repositories.ClinicRepository { return s.clinics }

type indexedVeterinarians struct {
	repositories.VeterinarianRepository
	index repositories.VeterinarianSearchRepository
}

func (v *indexedVeterinarians) Search(ctx context.Context, q repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	return v.index.Search(ctx, q)
}
