package repositories

import (
	"context"

	"github.com/vetconnect/backend/internal/domain/entities"
)

// VeterinarianRepository defines the interface for veterinarian data operations
type VeterinarianRepository interface {
	// GetByID retrieves a veterinarian by ID
	GetByID(ctx context.Context, id string) (*entities.Veterinarian, error)

	// Search runs the coarse candidate query: numeric predicates and pagination only
	Search(ctx context.Context, query CandidateQuery) (*CandidatePage, error)

	// List retrieves veterinarians page by page
	List(ctx context.Context, filter VeterinarianFilter) ([]*entities.Veterinarian, error)
}

// VeterinarianSearchRepository defines the interface for the veterinarian search index (e.g. Typesense)
type VeterinarianSearchRepository interface {
	// Search runs the candidate query against the index
	Search(ctx context.Context, query CandidateQuery) (*CandidatePage, error)

	// Index upserts a veterinarian document
	Index(ctx context.Context, vet *entities.Veterinarian) error

	// Delete removes a veterinarian from the index
	Delete(ctx context.Context, id string) error
}

// CandidateQuery carries only index-friendly predicates. Text and specialty
// matching happen after the page is fetched.
type CandidateQuery struct {
	MinRating     float64
	MinExperience int
	Limit         int
	Offset        int
}

// CandidatePage is one page of candidates plus the count of all rows matching
// the numeric predicates
type CandidatePage struct {
	Veterinarians []*entities.Veterinarian
	TotalCount    int
}

// VeterinarianFilter defines filters for listing veterinarians
type VeterinarianFilter struct {
	ClinicID string
	Limit    int
	Offset   int
}
