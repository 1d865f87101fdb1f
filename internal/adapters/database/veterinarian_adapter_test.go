package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

var vetColumnNames = []string{
	"id", "name", "specialties", "rating", "review_count", "experience_years",
	"clinic_id", "bio", "phone_number", "email", "consultation_fee",
	"is_available", "created_at", "updated_at",
}

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func TestVeterinarianAdapter_Search_AppliesNumericPredicates(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewVeterinarianAdapter(client)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "veterinarians" WHERE \(\("rating" >= 4\.5\) AND \("experience_years" >= 5\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	mock.ExpectQuery(`SELECT .* FROM "veterinarians" WHERE .* ORDER BY "rating" DESC, "id" ASC LIMIT 2 OFFSET 4`).
		WillReturnRows(sqlmock.NewRows(vetColumnNames).
			AddRow("vet-1", "Dr. Sarah Johnson", "{Surgery,\"Emergency Medicine\"}", 4.9, 120, 12, "clinic-1", "bio", nil, nil, 75.0, true, now, now).
			AddRow("vet-2", "Dr. Mike Chen", "{Dermatology}", 4.6, 80, 6, "clinic-2", nil, "555-0100", nil, nil, true, now, now))

	page, err := adapter.Search(context.Background(), repositories.CandidateQuery{
		MinRating:     4.5,
		MinExperience: 5,
		Limit:         2,
		Offset:        4,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, page.TotalCount)
	require.Len(t, page.Veterinarians, 2)
	assert.Equal(t, []string{"Surgery", "Emergency Medicine"}, page.Veterinarians[0].Specialties)
	assert.Equal(t, 75.0, page.Veterinarians[0].ConsultationFee)
	assert.Equal(t, "555-0100", page.Veterinarians[1].PhoneNumber)
	assert.Empty(t, page.Veterinarians[1].Bio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVeterinarianAdapter_Search_NoPredicates(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewVeterinarianAdapter(client)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "veterinarians"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .* FROM "veterinarians" ORDER BY`).
		WillReturnRows(sqlmock.NewRows(vetColumnNames))

	page, err := adapter.Search(context.Background(), repositories.CandidateQuery{})

	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Veterinarians)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVeterinarianAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewVeterinarianAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "veterinarians" WHERE \("id" = 'missing'\)`).
		WillReturnRows(sqlmock.NewRows(vetColumnNames))

	vet, err := adapter.GetByID(context.Background(), "missing")

	assert.Nil(t, vet)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVeterinarianAdapter_Search_QueryFailure(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewVeterinarianAdapter(client)

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(assert.AnError)

	_, err := adapter.Search(context.Background(), repositories.CandidateQuery{MinRating: 4})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.ErrorIs(t, err, assert.AnError)
}
