package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

const clinicsTable = "clinics"

var clinicColumns = []interface{}{
	"id", "name", "street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "hours", "time_zone", "services",
	"rating", "review_count", "phone_number", "email", "website",
	"is_active", "created_at", "updated_at",
}

// ClinicAdapter implements the ClinicRepository interface
type ClinicAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.ClinicRepository = (*ClinicAdapter)(nil)

// NewClinicAdapter creates a new clinic adapter
func NewClinicAdapter(client *postgres.Client) *ClinicAdapter {
	return &ClinicAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a clinic by ID
func (a *ClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	query, args, err := a.db.Select(clinicColumns...).
		From(clinicsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build get query", err)
	}

	clinic, err := scanClinic(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get clinic", err)
	}

	return clinic, nil
}

// GetByIDs retrieves the clinics whose IDs are listed, in ID order
func (a *ClinicAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Clinic, error) {
	if len(ids) == 0 {
		return []*entities.Clinic{}, nil
	}

	ds := a.db.Select(clinicColumns...).
		From(clinicsTable).
		Where(goqu.C("id").In(ids)).
		Order(goqu.I("id").Asc())

	return a.queryClinics(ctx, ds)
}

// List retrieves clinics with filters
func (a *ClinicAdapter) List(ctx context.Context, filter repositories.ClinicFilter) ([]*entities.Clinic, error) {
	ds := a.db.Select(clinicColumns...).From(clinicsTable)

	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}

	ds = ds.Order(goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return a.queryClinics(ctx, ds)
}

// Upsert inserts or replaces a clinic row
func (a *ClinicAdapter) Upsert(ctx context.Context, clinic *entities.Clinic) error {
	hours, err := json.Marshal(clinic.Hours)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("clinic %s has unencodable hours", clinic.ID))
	}

	var lat, lon sql.NullFloat64
	if clinic.Location != nil {
		lat = sql.NullFloat64{Float64: clinic.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: clinic.Location.Longitude, Valid: true}
	}

	record := goqu.Record{
		"id":           clinic.ID,
		"name":         clinic.Name,
		"street":       clinic.Address.Street,
		"city":         clinic.Address.City,
		"state":        clinic.Address.State,
		"zip_code":     clinic.Address.ZipCode,
		"country":      clinic.Address.Country,
		"latitude":     lat,
		"longitude":    lon,
		"hours":        string(hours),
		"time_zone":    clinic.TimeZone,
		"services":     pq.Array(clinic.Services),
		"rating":       clinic.Rating,
		"review_count": clinic.ReviewCount,
		"phone_number": clinic.PhoneNumber,
		"email":        clinic.Email,
		"website":      clinic.Website,
		"is_active":    clinic.IsActive,
		"created_at":   clinic.CreatedAt,
		"updated_at":   clinic.UpdatedAt,
	}

	query, args, err := a.db.Insert(clinicsTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", excludedRecord(record))).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert clinic", err)
	}
	return nil
}

func (a *ClinicAdapter) queryClinics(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Clinic, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build clinic query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query clinics", err)
	}
	defer rows.Close()

	clinics := []*entities.Clinic{}
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan clinic", err)
		}
		clinics = append(clinics, clinic)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate clinics", err)
	}

	return clinics, nil
}

// scanClinic reads one clinic row. NULL coordinates leave Location nil so
// the proximity join can report the gap.
func scanClinic(row rowScanner) (*entities.Clinic, error) {
	clinic := &entities.Clinic{}
	var lat, lon sql.NullFloat64
	var hours []byte
	var timeZone, phone, email, website sql.NullString

	err := row.Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Address.Street,
		&clinic.Address.City,
		&clinic.Address.State,
		&clinic.Address.ZipCode,
		&clinic.Address.Country,
		&lat,
		&lon,
		&hours,
		&timeZone,
		pq.Array(&clinic.Services),
		&clinic.Rating,
		&clinic.ReviewCount,
		&phone,
		&email,
		&website,
		&clinic.IsActive,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		clinic.Location = &geo.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &clinic.Hours); err != nil {
			return nil, fmt.Errorf("clinic %s: invalid hours: %w", clinic.ID, err)
		}
	}
	clinic.TimeZone = timeZone.String
	clinic.PhoneNumber = phone.String
	clinic.Email = email.String
	clinic.Website = website.String

	return clinic, nil
}
