// Package fixture serves the bundled sample dataset through the same
// repository interfaces as the remote data source.
package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

//go:embed data/*.json
var dataset embed.FS

// Source is an in-memory DataSource over a fixed dataset
type Source struct {
	veterinarians *veterinarianStore
	clinics       *clinicStore
}

var _ repositories.DataSource = (*Source)(nil)

// Load parses the bundled sample dataset
func Load() (*Source, error) {
	var vets []*entities.Veterinarian
	if err := readJSON("data/veterinarians.json", &vets); err != nil {
		return nil, err
	}
	var clinics []*entities.Clinic
	if err := readJSON("data/clinics.json", &clinics); err != nil {
		return nil, err
	}
	return New(vets, clinics), nil
}

// New builds a source over the given records. The slices are not copied.
func New(vets []*entities.Veterinarian, clinics []*entities.Clinic) *Source {
	byID := make(map[string]*entities.Clinic, len(clinics))
	for _, c := range clinics {
		byID[c.ID] = c
	}
	return &Source{
		veterinarians: &veterinarianStore{items: vets},
		clinics:       &clinicStore{items: clinics, byID: byID},
	}
}

func readJSON(name string, into interface{}) error {
	raw, err := dataset.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}

// Name identifies the source
func (s *Source) Name() string { return "fixture" }

// Veterinarians returns the veterinarian repository
func (s *Source) Veterinarians() repositories.VeterinarianRepository { return s.veterinarians }

// Clinics returns the clinic repository
func (s *Source) Clinics() repositories.ClinicRepository { return s.clinics }

type veterinarianStore struct {
	items []*entities.Veterinarian
}

func (s *veterinarianStore) GetByID(ctx context.Context, id string) (*entities.Veterinarian, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, v := range s.items {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("veterinarian with id %s not found", id))
}

// Search mirrors the remote candidate query: numeric predicates, rating
// descending with ID as tiebreaker, then pagination.
func (s *veterinarianStore) Search(ctx context.Context, q repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]*entities.Veterinarian, 0, len(s.items))
	for _, v := range s.items {
		if v.Rating >= q.MinRating && v.ExperienceYears >= q.MinExperience {
			matched = append(matched, v)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].ID < matched[j].ID
	})

	return &repositories.CandidatePage{
		Veterinarians: paginate(matched, q.Limit, q.Offset),
		TotalCount:    len(matched),
	}, nil
}

func (s *veterinarianStore) List(ctx context.Context, filter repositories.VeterinarianFilter) ([]*entities.Veterinarian, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*entities.Veterinarian, 0, len(s.items))
	for _, v := range s.items {
		if filter.ClinicID == "" || v.ClinicID == filter.ClinicID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, filter.Limit, filter.Offset), nil
}

type clinicStore struct {
	items []*entities.Clinic
	byID  map[string]*entities.Clinic
}

func (s *clinicStore) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
}

func (s *clinicStore) GetByIDs(ctx context.Context, ids []string) ([]*entities.Clinic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*entities.Clinic, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if c, ok := s.byID[id]; ok && !seen[id] {
			out = append(out, c)
			seen[id] = true
		}
	}
	return out, nil
}

func (s *clinicStore) List(ctx context.Context, filter repositories.ClinicFilter) ([]*entities.Clinic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*entities.Clinic, 0, len(s.items))
	for _, c := range s.items {
		if filter.IsActive == nil || c.IsActive == *filter.IsActive {
			out = append(out, c)
		}
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
