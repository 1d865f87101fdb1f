package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

func TestClinicService_GetClinic(t *testing.T) {
	svc := services.NewClinicService(loadFixture(t), testSearchConfig(), testTimeouts(), nil)

	clinic, err := svc.GetClinic(context.Background(), "clinic-2")
	require.NoError(t, err)
	assert.Equal(t, "Mission Pet Clinic", clinic.Name)

	_, err = svc.GetClinic(context.Background(), "clinic-404")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.GetClinic(context.Background(), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestClinicService_GetVeterinarian(t *testing.T) {
	svc := services.NewClinicService(loadFixture(t), testSearchConfig(), testTimeouts(), nil)

	vet, err := svc.GetVeterinarian(context.Background(), "vet-4")
	require.NoError(t, err)
	assert.True(t, vet.HandlesEmergencies())

	_, err = svc.GetVeterinarian(context.Background(), "vet-404")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestClinicService_OpenStatus(t *testing.T) {
	svc := services.NewClinicService(loadFixture(t), testSearchConfig(), testTimeouts(), nil)

	tests := []struct {
		name     string
		clinicID string
		hour     int
		minute   int
		want     entities.OpenStatus
	}{
		{
			name: "morning before break", clinicID: "clinic-1", hour: 10,
			want: entities.OpenStatus{Open: true, State: entities.OpenStateOpen, ClosesAt: "12:00"},
		},
		{
			name: "lunch break", clinicID: "clinic-1", hour: 12, minute: 30,
			want: entities.OpenStatus{State: entities.OpenStateOnBreak, OpensAt: "13:00"},
		},
		{
			name: "after closing", clinicID: "clinic-1", hour: 19,
			want: entities.OpenStatus{State: entities.OpenStateAfterClosing},
		},
		{
			name: "overnight clinic still open from sunday", clinicID: "clinic-4", hour: 7, minute: 15,
			want: entities.OpenStatus{Open: true, State: entities.OpenStateOpen, ClosesAt: "08:00"},
		},
		{
			name: "no monday hours", clinicID: "clinic-5", hour: 11,
			want: entities.OpenStatus{State: entities.OpenStateNoSchedule},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clinic, status, err := svc.OpenStatus(context.Background(), tt.clinicID, mondayAt(t, tt.hour, tt.minute))
			require.NoError(t, err)
			assert.Equal(t, tt.clinicID, clinic.ID)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestClinicService_OpenClinics(t *testing.T) {
	svc := services.NewClinicService(loadFixture(t), testSearchConfig(), testTimeouts(), nil)

	open, err := svc.OpenClinics(context.Background(), mondayAt(t, 20, 0))
	require.NoError(t, err)

	var got []string
	for _, c := range open {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"clinic-3", "clinic-4"}, got)
}
