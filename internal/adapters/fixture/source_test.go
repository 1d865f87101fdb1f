package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/domain/repositories"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

func TestLoad_BundledDataset(t *testing.T) {
	source, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fixture", source.Name())

	clinic, err := source.Clinics().GetByID(context.Background(), "clinic-1")
	require.NoError(t, err)
	require.True(t, clinic.HasLocation())
	assert.Equal(t, 37.7749, clinic.Location.Latitude)
	assert.Equal(t, "12:00", clinic.Hours["monday"].BreakStart)

	mobile, err := source.Clinics().GetByID(context.Background(), "clinic-5")
	require.NoError(t, err)
	assert.False(t, mobile.HasLocation())
}

func TestVeterinarianStore_Search(t *testing.T) {
	source, err := Load()
	require.NoError(t, err)

	page, err := source.Veterinarians().Search(context.Background(), repositories.CandidateQuery{
		MinRating:     4.5,
		MinExperience: 5,
		Limit:         2,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, page.TotalCount)
	require.Len(t, page.Veterinarians, 2)
	assert.Equal(t, "vet-1", page.Veterinarians[0].ID)
	assert.Equal(t, "vet-4", page.Veterinarians[1].ID)

	next, err := source.Veterinarians().Search(context.Background(), repositories.CandidateQuery{
		MinRating:     4.5,
		MinExperience: 5,
		Limit:         2,
		Offset:        4,
	})
	require.NoError(t, err)
	assert.Len(t, next.Veterinarians, 1)
}

func TestClinicStore_GetByIDs_SkipsUnknown(t *testing.T) {
	source, err := Load()
	require.NoError(t, err)

	clinics, err := source.Clinics().GetByIDs(context.Background(), []string{"clinic-2", "clinic-99", "clinic-1", "clinic-2"})
	require.NoError(t, err)

	require.Len(t, clinics, 2)
	assert.Equal(t, "clinic-2", clinics[0].ID)
	assert.Equal(t, "clinic-1", clinics[1].ID)
}

func TestVeterinarianStore_GetByID_NotFound(t *testing.T) {
	source, err := Load()
	require.NoError(t, err)

	_, err = source.Veterinarians().GetByID(context.Background(), "vet-404")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, paginate(items, 0, 0))
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Equal(t, []int{}, paginate(items, 2, 10))
}
