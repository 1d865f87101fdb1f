package repositories

import (
	"context"

	"github.com/vetconnect/backend/internal/domain/entities"
)

// ClinicRepository defines the interface for clinic data operations
type ClinicRepository interface {
	// GetByID retrieves a clinic by ID
	GetByID(ctx context.Context, id string) (*entities.Clinic, error)

	// GetByIDs retrieves multiple clinics by their IDs. Unknown IDs are
	// omitted from the result rather than reported as errors.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Clinic, error)

	// List retrieves clinics with filters
	List(ctx context.Context, filter ClinicFilter) ([]*entities.Clinic, error)
}

// ClinicFilter defines filters for listing clinics
type ClinicFilter struct {
	IsActive *bool
	Limit    int
	Offset   int
}
