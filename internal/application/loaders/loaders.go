package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

const (
	batchWait     = 2 * time.Millisecond
	batchCapacity = 100
)

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	ClinicLoader *ClinicLoader
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(clinicRepo repositories.ClinicRepository) *Loaders {
	return &Loaders{
		ClinicLoader: NewClinicLoader(clinicRepo),
	}
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// ClinicLoader batches clinic lookups by ID so that joining a page of
// veterinarians costs one GetByIDs call per distinct batch. Results are
// memoized for the loader's lifetime, so a loader should live no longer
// than one request.
type ClinicLoader struct {
	loader *dataloader.Loader[string, *entities.Clinic]
}

// NewClinicLoader creates a loader over repo.GetByIDs
func NewClinicLoader(repo repositories.ClinicRepository) *ClinicLoader {
	return &ClinicLoader{
		loader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Clinic] {
				results := make([]*dataloader.Result[*entities.Clinic], len(keys))
				clinics, err := repo.GetByIDs(ctx, keys)

				clinicMap := make(map[string]*entities.Clinic, len(clinics))
				if err == nil {
					for _, c := range clinics {
						clinicMap[c.ID] = c
					}
				}

				for i, key := range keys {
					if err != nil {
						results[i] = &dataloader.Result[*entities.Clinic]{Error: err}
					} else if c, ok := clinicMap[key]; ok {
						results[i] = &dataloader.Result[*entities.Clinic]{Data: c}
					} else {
						results[i] = &dataloader.Result[*entities.Clinic]{Error: apperrors.NewNotFoundError(fmt.Sprintf("clinic %s not found", key))}
					}
				}
				return results
			},
			dataloader.WithWait[string, *entities.Clinic](batchWait),
			dataloader.WithBatchCapacity[string, *entities.Clinic](batchCapacity),
		),
	}
}

// Load fetches one clinic
func (l *ClinicLoader) Load(ctx context.Context, id string) (*entities.Clinic, error) {
	return l.loader.Load(ctx, id)()
}

// LoadAll fetches clinics for ids. Both returned slices are aligned with ids;
// errs[i] is non-nil when clinics[i] could not be loaded.
func (l *ClinicLoader) LoadAll(ctx context.Context, ids []string) ([]*entities.Clinic, []error) {
	thunks := make([]dataloader.Thunk[*entities.Clinic], len(ids))
	for i, id := range ids {
		thunks[i] = l.loader.Load(ctx, id)
	}

	clinics := make([]*entities.Clinic, len(ids))
	errs := make([]error, len(ids))
	for i, thunk := range thunks {
		clinics[i], errs[i] = thunk()
	}
	return clinics, errs
}

// Clear drops a memoized clinic so the next Load refetches it
func (l *ClinicLoader) Clear(ctx context.Context, id string) {
	l.loader.Clear(ctx, id)
}
