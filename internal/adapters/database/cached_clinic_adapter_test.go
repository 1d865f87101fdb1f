package database

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/adapters/cache"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

type countingClinicRepo struct {
	mu       sync.Mutex
	clinics  map[string]*entities.Clinic
	batches  [][]string
	getCalls int
}

func (r *countingClinicRepo) GetByID(_ context.Context, id string) (*entities.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if c, ok := r.clinics[id]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError("clinic " + id)
}

func (r *countingClinicRepo) GetByIDs(_ context.Context, ids []string) ([]*entities.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]string(nil), ids...))
	var out []*entities.Clinic
	for _, id := range ids {
		if c, ok := r.clinics[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *countingClinicRepo) List(context.Context, repositories.ClinicFilter) ([]*entities.Clinic, error) {
	return nil, nil
}

func newCountingRepo() *countingClinicRepo {
	return &countingClinicRepo{clinics: map[string]*entities.Clinic{
		"clinic-1": {ID: "clinic-1", Name: "Bay Animal Hospital"},
		"clinic-2": {ID: "clinic-2", Name: "Mission Pet Clinic"},
		"clinic-3": {ID: "clinic-3", Name: "Sunset Vet"},
	}}
}

func TestCachedClinicAdapter_GetByID_ReadThrough(t *testing.T) {
	repo := newCountingRepo()
	memory := cache.NewMemoryCache()
	adapter := NewCachedClinicAdapter(repo, memory, time.Second)
	ctx := context.Background()

	clinic, err := adapter.GetByID(ctx, "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, "Bay Animal Hospital", clinic.Name)

	assert.Eventually(t, func() bool {
		ok, _ := memory.Exists(ctx, "clinic:clinic-1")
		return ok
	}, time.Second, 5*time.Millisecond)

	_, err = adapter.GetByID(ctx, "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestCachedClinicAdapter_GetByIDs_FetchesOnlyMisses(t *testing.T) {
	repo := newCountingRepo()
	memory := cache.NewMemoryCache()
	ctx := context.Background()

	data, _ := json.Marshal(&entities.Clinic{ID: "clinic-2", Name: "Mission Pet Clinic (cached)"})
	require.NoError(t, memory.Set(ctx, "clinic:clinic-2", data, 60))

	adapter := NewCachedClinicAdapter(repo, memory, time.Second)

	clinics, err := adapter.GetByIDs(ctx, []string{"clinic-3", "clinic-2", "clinic-9", "clinic-1", "clinic-3"})
	require.NoError(t, err)

	require.Len(t, clinics, 3)
	assert.Equal(t, "clinic-3", clinics[0].ID)
	assert.Equal(t, "Mission Pet Clinic (cached)", clinics[1].Name)
	assert.Equal(t, "clinic-1", clinics[2].ID)

	require.Len(t, repo.batches, 1)
	assert.Equal(t, []string{"clinic-3", "clinic-9", "clinic-1"}, repo.batches[0])
}

func TestCachedClinicAdapter_Invalidate(t *testing.T) {
	memory := cache.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, memory.Set(ctx, "clinic:clinic-1", []byte("{}"), 60))
	require.NoError(t, memory.Set(ctx, "clinics:list:any:0:0", []byte("[]"), 60))
	require.NoError(t, memory.Set(ctx, "geocode:sf", []byte("{}"), 60))

	adapter := NewCachedClinicAdapter(newCountingRepo(), memory, time.Second)
	require.NoError(t, adapter.Invalidate(ctx))

	assert.Equal(t, 1, memory.Len())
}
