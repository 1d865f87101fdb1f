package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	tsclient "github.com/vetconnect/backend/internal/infrastructure/clients/typesense"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

// CollectionName is the Typesense collection holding veterinarian documents
const CollectionName = "veterinarians"

// TypesenseAdapter implements the veterinarian candidate query on a Typesense index
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.VeterinarianSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Schema describes the veterinarians collection
func Schema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: CollectionName,
		Fields: []api.Field{
			{Name: "name", Type: "string"},
			{Name: "vet_id", Type: "string", Sort: pointer.True()},
			{Name: "specialties", Type: "string[]", Facet: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "review_count", Type: "int32"},
			{Name: "experience_years", Type: "int32"},
			{Name: "clinic_id", Type: "string"},
			{Name: "is_available", Type: "bool"},
			{Name: "bio", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "phone_number", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "email", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "consultation_fee", Type: "float", Optional: pointer.True()},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("rating"),
	}
}

// InitSchema ensures the veterinarians collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.EnsureCollection(ctx, Schema())
}

// Index upserts a veterinarian document
func (a *TypesenseAdapter) Index(ctx context.Context, vet *entities.Veterinarian) error {
	if _, err := a.client.Client().Collection(CollectionName).Documents().Upsert(ctx, toDocument(vet)); err != nil {
		return apperrors.NewExternalError("failed to index veterinarian "+vet.ID, err)
	}
	return nil
}

// Delete removes a veterinarian from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(CollectionName).Document(id).Delete(ctx); err != nil {
		return apperrors.NewExternalError("failed to delete veterinarian "+id, err)
	}
	return nil
}

// Search returns candidates matching the numeric predicates, highest rated first
func (a *TypesenseAdapter) Search(ctx context.Context, query repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	params := BuildSearchParams(query)

	result, err := a.client.Client().Collection(CollectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to search veterinarians", err)
	}

	page := &repositories.CandidatePage{Veterinarians: []*entities.Veterinarian{}}
	if result.Found != nil {
		page.TotalCount = *result.Found
	}
	if result.Hits == nil {
		return page, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		page.Veterinarians = append(page.Veterinarians, fromDocument(*hit.Document))
	}

	return page, nil
}

// BuildSearchParams translates a candidate query into Typesense parameters.
// Rows are ordered like the postgres adapter: rating first, then id.
func BuildSearchParams(query repositories.CandidateQuery) *api.SearchCollectionParams {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String("name"),
		SortBy:  pointer.String("rating:desc,vet_id:asc"),
		Offset:  pointer.Int(query.Offset),
		Limit:   pointer.Int(limit),
	}

	var filters []string
	if query.MinRating > 0 {
		filters = append(filters, fmt.Sprintf("rating:>=%g", query.MinRating))
	}
	if query.MinExperience > 0 {
		filters = append(filters, fmt.Sprintf("experience_years:>=%d", query.MinExperience))
	}
	if len(filters) > 0 {
		params.FilterBy = pointer.String(strings.Join(filters, " && "))
	}

	return params
}

func toDocument(vet *entities.Veterinarian) map[string]interface{} {
	specialties := vet.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return map[string]interface{}{
		"id":               vet.ID,
		"vet_id":           vet.ID,
		"name":             vet.Name,
		"specialties":      specialties,
		"rating":           vet.Rating,
		"review_count":     vet.ReviewCount,
		"experience_years": vet.ExperienceYears,
		"clinic_id":        vet.ClinicID,
		"is_available":     vet.IsAvailable,
		"bio":              vet.Bio,
		"phone_number":     vet.PhoneNumber,
		"email":            vet.Email,
		"consultation_fee": vet.ConsultationFee,
		"updated_at":       vet.UpdatedAt.Unix(),
	}
}

// fromDocument reads a search hit. JSON numbers arrive as float64.
func fromDocument(doc map[string]interface{}) *entities.Veterinarian {
	vet := &entities.Veterinarian{
		ID:              stringField(doc, "id"),
		Name:            stringField(doc, "name"),
		ClinicID:        stringField(doc, "clinic_id"),
		Bio:             stringField(doc, "bio"),
		PhoneNumber:     stringField(doc, "phone_number"),
		Email:           stringField(doc, "email"),
		Rating:          floatField(doc, "rating"),
		ConsultationFee: floatField(doc, "consultation_fee"),
		ReviewCount:     int(floatField(doc, "review_count")),
		ExperienceYears: int(floatField(doc, "experience_years")),
	}

	if available, ok := doc["is_available"].(bool); ok {
		vet.IsAvailable = available
	}
	if raw, ok := doc["specialties"].([]interface{}); ok {
		for _, s := range raw {
			if str, ok := s.(string); ok {
				vet.Specialties = append(vet.Specialties, str)
			}
		}
	}
	if updated := floatField(doc, "updated_at"); updated > 0 {
		vet.UpdatedAt = time.Unix(int64(updated), 0).UTC()
	}

	return vet
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func floatField(doc map[string]interface{}, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
