package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/domain/repositories"
)

var clinicColumnNames = []string{
	"id", "name", "street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "hours", "time_zone", "services",
	"rating", "review_count", "phone_number", "email", "website",
	"is_active", "created_at", "updated_at",
}

const mondayHoursJSON = `{"monday":{"closed":false,"open_time":"08:00","close_time":"18:00","break_start":"12:00","break_end":"13:00"}}`

func TestClinicAdapter_GetByIDs(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewClinicAdapter(client)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "clinics" WHERE \("id" IN \('clinic-1', 'clinic-2'\)\) ORDER BY "id" ASC`).
		WillReturnRows(sqlmock.NewRows(clinicColumnNames).
			AddRow("clinic-1", "Bay Animal Hospital", "1 Market St", "San Francisco", "CA", "94105", "US",
				37.7749, -122.4194, mondayHoursJSON, "America/Los_Angeles", "{surgery,emergency}",
				4.7, 310, "555-0101", nil, nil, true, now, now).
			AddRow("clinic-2", "Mission Pet Clinic", "2 Valencia St", "San Francisco", "CA", "94110", "US",
				nil, nil, nil, nil, "{}",
				4.2, 45, nil, nil, nil, true, now, now))

	clinics, err := adapter.GetByIDs(context.Background(), []string{"clinic-1", "clinic-2"})

	require.NoError(t, err)
	require.Len(t, clinics, 2)

	assert.True(t, clinics[0].HasLocation())
	assert.Equal(t, 37.7749, clinics[0].Location.Latitude)
	assert.Equal(t, "18:00", clinics[0].Hours["monday"].CloseTime)
	assert.Equal(t, []string{"surgery", "emergency"}, clinics[0].Services)

	assert.False(t, clinics[1].HasLocation(), "NULL coordinates stay nil")
	assert.Empty(t, clinics[1].Hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicAdapter_GetByIDs_Empty(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewClinicAdapter(client)

	clinics, err := adapter.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, clinics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicAdapter_List_ActiveOnly(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewClinicAdapter(client)
	active := true

	mock.ExpectQuery(`SELECT .* FROM "clinics" WHERE \("is_active" IS TRUE\) ORDER BY "id" ASC LIMIT 50`).
		WillReturnRows(sqlmock.NewRows(clinicColumnNames))

	clinics, err := adapter.List(context.Background(), repositories.ClinicFilter{IsActive: &active, Limit: 50})

	require.NoError(t, err)
	assert.Empty(t, clinics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicAdapter_InvalidHoursFailsScan(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewClinicAdapter(client)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "clinics"`).
		WillReturnRows(sqlmock.NewRows(clinicColumnNames).
			AddRow("clinic-9", "Broken", "", "", "", "", "", 1.0, 1.0, "not-json", nil, "{}", 0.0, 0, nil, nil, nil, true, now, now))

	_, err := adapter.GetByID(context.Background(), "clinic-9")

	assert.Error(t, err)
}
