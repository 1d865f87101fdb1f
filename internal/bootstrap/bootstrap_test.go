package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetconnect/backend/internal/adapters/cache"
	"github.com/vetconnect/backend/pkg/config"
)

func TestOpen_FixtureWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		DataSource: config.DataSourceFixture,
		Redis:      config.RedisConfig{Enabled: false},
	}

	res, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, "fixture", res.Source.Name())
	assert.IsType(t, &cache.MemoryCache{}, res.Cache)
	assert.Nil(t, res.Analytics)
	assert.Nil(t, res.Events)
	assert.Nil(t, res.ClinicCache)
	assert.Empty(t, res.Checks)
}

func TestOpen_UnknownSource(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DataSource: "sqlite"})
	assert.Error(t, err)
}
