package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/pkg/geo"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DataSourcePostgres, cfg.DataSource)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "xyz", cfg.Typesense.APIKey)
	assert.Equal(t, 25.0, cfg.Search.DefaultRadiusKm)
	assert.Equal(t, 15.0, cfg.Search.EmergencyRadiusKm)
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
	assert.Equal(t, geo.UnitMetric, cfg.Search.Units)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.PositionLookup)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Fixture")
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("SEARCH_EMERGENCY_RADIUS_KM", "7.5")
	t.Setenv("DISTANCE_UNITS", "imperial")
	t.Setenv("TIMEOUT_GEOCODE", "2s")
	t.Setenv("ALLOWED_ORIGINS", "https://vetconnect.app, https://admin.vetconnect.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DataSourceFixture, cfg.DataSource)
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, 7.5, cfg.Search.EmergencyRadiusKm)
	assert.Equal(t, geo.UnitImperial, cfg.Search.Units)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Geocode)
	assert.Equal(t, []string{"https://vetconnect.app", "https://admin.vetconnect.app"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("TIMEOUT_REMOTE_QUERY", "-3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.RemoteQuery)
}

func TestLoad_RejectsUnknownDataSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "firestore")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownUnits(t *testing.T) {
	t.Setenv("DISTANCE_UNITS", "furlongs")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5433, User: "vet", Password: "secret", Database: "vetconnect", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=vet password=secret dbname=vetconnect sslmode=require", db.DatabaseDSN())
}
