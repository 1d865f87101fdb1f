package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
)

func TestCacheWarming_ReadsListThenIDs(t *testing.T) {
	repo := new(MockClinicRepository)
	active := true
	clinics := []*entities.Clinic{{ID: "clinic-1"}, {ID: "clinic-2"}}
	repo.On("List", mock.Anything, repositories.ClinicFilter{IsActive: &active, Limit: 100}).Return(clinics, nil)
	repo.On("GetByIDs", mock.Anything, []string{"clinic-1", "clinic-2"}).Return(clinics, nil)

	err := services.NewCacheWarmingService(repo, 100).WarmCache(context.Background())

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCacheWarming_EmptyListSkipsLookup(t *testing.T) {
	repo := new(MockClinicRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]*entities.Clinic{}, nil)

	err := services.NewCacheWarmingService(repo, 100).WarmCache(context.Background())

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestCacheWarming_ListError(t *testing.T) {
	repo := new(MockClinicRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	err := services.NewCacheWarmingService(repo, 100).WarmCache(context.Background())

	assert.Error(t, err)
}
