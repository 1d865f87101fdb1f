package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

const veterinariansTable = "veterinarians"

var veterinarianColumns = []interface{}{
	"id", "name", "specialties", "rating", "review_count", "experience_years",
	"clinic_id", "bio", "phone_number", "email", "consultation_fee",
	"is_available", "created_at", "updated_at",
}

// VeterinarianAdapter implements the VeterinarianRepository interface
type VeterinarianAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.VeterinarianRepository = (*VeterinarianAdapter)(nil)

// NewVeterinarianAdapter creates a new veterinarian adapter
func NewVeterinarianAdapter(client *postgres.Client) *VeterinarianAdapter {
	return &VeterinarianAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a veterinarian by ID
func (a *VeterinarianAdapter) GetByID(ctx context.Context, id string) (*entities.Veterinarian, error) {
	query, args, err := a.db.Select(veterinarianColumns...).
		From(veterinariansTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build get query", err)
	}

	vet, err := scanVeterinarian(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("veterinarian with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get veterinarian", err)
	}

	return vet, nil
}

// Search runs the candidate query: numeric predicates, a stable order and
// pagination, plus a count of every matching row
func (a *VeterinarianAdapter) Search(ctx context.Context, q repositories.CandidateQuery) (*repositories.CandidatePage, error) {
	where := candidatePredicates(q)

	countQuery, countArgs, err := a.db.From(veterinariansTable).
		Select(goqu.COUNT("*")).
		Where(where...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, apperrors.NewInternalError("failed to count veterinarians", err)
	}

	ds := a.db.Select(veterinarianColumns...).
		From(veterinariansTable).
		Where(where...).
		Order(goqu.I("rating").Desc(), goqu.I("id").Asc())
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}

	vets, err := a.queryVeterinarians(ctx, ds)
	if err != nil {
		return nil, err
	}

	return &repositories.CandidatePage{Veterinarians: vets, TotalCount: total}, nil
}

// List retrieves veterinarians ordered by ID
func (a *VeterinarianAdapter) List(ctx context.Context, filter repositories.VeterinarianFilter) ([]*entities.Veterinarian, error) {
	ds := a.db.Select(veterinarianColumns...).From(veterinariansTable)

	if filter.ClinicID != "" {
		ds = ds.Where(goqu.Ex{"clinic_id": filter.ClinicID})
	}

	ds = ds.Order(goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return a.queryVeterinarians(ctx, ds)
}

// Upsert inserts or replaces a veterinarian row
func (a *VeterinarianAdapter) Upsert(ctx context.Context, vet *entities.Veterinarian) error {
	record := goqu.Record{
		"id":               vet.ID,
		"name":             vet.Name,
		"specialties":      pq.Array(vet.Specialties),
		"rating":           vet.Rating,
		"review_count":     vet.ReviewCount,
		"experience_years": vet.ExperienceYears,
		"clinic_id":        vet.ClinicID,
		"bio":              vet.Bio,
		"phone_number":     vet.PhoneNumber,
		"email":            vet.Email,
		"consultation_fee": vet.ConsultationFee,
		"is_available":     vet.IsAvailable,
		"created_at":       vet.CreatedAt,
		"updated_at":       vet.UpdatedAt,
	}

	query, args, err := a.db.Insert(veterinariansTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", excludedRecord(record))).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert veterinarian", err)
	}
	return nil
}

func (a *VeterinarianAdapter) queryVeterinarians(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Veterinarian, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build veterinarian query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query veterinarians", err)
	}
	defer rows.Close()

	vets := []*entities.Veterinarian{}
	for rows.Next() {
		vet, err := scanVeterinarian(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan veterinarian", err)
		}
		vets = append(vets, vet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate veterinarians", err)
	}

	return vets, nil
}

func candidatePredicates(q repositories.CandidateQuery) []goqu.Expression {
	var where []goqu.Expression
	if q.MinRating > 0 {
		where = append(where, goqu.C("rating").Gte(q.MinRating))
	}
	if q.MinExperience > 0 {
		where = append(where, goqu.C("experience_years").Gte(q.MinExperience))
	}
	return where
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVeterinarian(row rowScanner) (*entities.Veterinarian, error) {
	vet := &entities.Veterinarian{}
	var bio, phone, email sql.NullString
	var fee sql.NullFloat64

	err := row.Scan(
		&vet.ID,
		&vet.Name,
		pq.Array(&vet.Specialties),
		&vet.Rating,
		&vet.ReviewCount,
		&vet.ExperienceYears,
		&vet.ClinicID,
		&bio,
		&phone,
		&email,
		&fee,
		&vet.IsAvailable,
		&vet.CreatedAt,
		&vet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	vet.Bio = bio.String
	vet.PhoneNumber = phone.String
	vet.Email = email.String
	vet.ConsultationFee = fee.Float64
	return vet, nil
}

// excludedRecord maps every column except id to EXCLUDED.<column> for ON CONFLICT updates
func excludedRecord(record goqu.Record) goqu.Record {
	update := goqu.Record{}
	for column := range record {
		if column == "id" || column == "created_at" {
			continue
		}
		update[column] = goqu.I("EXCLUDED." + column)
	}
	return update
}
