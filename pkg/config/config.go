package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vetconnect/backend/pkg/geo"
)

// Data source names accepted by DATA_SOURCE
const (
	DataSourcePostgres  = "postgres"
	DataSourceTypesense = "typesense"
	DataSourceFixture   = "fixture"
)

// Config holds all application configuration
type Config struct {
	Env         string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	Geolocation GeolocationConfig
	OTEL        OTELConfig
	DataSource  string
	Search      SearchConfig
	Timeouts    TimeoutsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// GeolocationConfig holds geocoding provider configuration
type GeolocationConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// SearchConfig holds defaults for veterinarian and clinic searches
type SearchConfig struct {
	DefaultRadiusKm   float64
	EmergencyRadiusKm float64
	DefaultPageSize   int
	MaxPageSize       int
	Units             geo.UnitSystem

	// NearbyCandidateLimit bounds how many veterinarians or clinics a
	// proximity scan reads before ranking by distance
	NearbyCandidateLimit int
}

// TimeoutsConfig holds the deadline applied to each kind of remote call
type TimeoutsConfig struct {
	RemoteQuery    time.Duration
	Geocode        time.Duration
	PositionLookup time.Duration
	CacheOperation time.Duration
	ShutdownGrace  time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	units, err := geo.ParseUnitSystem(getEnv("DISTANCE_UNITS", string(geo.UnitMetric)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "vetconnect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Geolocation: GeolocationConfig{
			Provider: getEnv("GEOLOCATION_PROVIDER", "mock"),
			APIKey:   getEnv("GEOLOCATION_API_KEY", ""),
			BaseURL:  getEnv("GEOLOCATION_BASE_URL", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "vetconnect"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", DataSourcePostgres)),
		Search: SearchConfig{
			DefaultRadiusKm:      getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 25),
			EmergencyRadiusKm:    getEnvAsFloat("SEARCH_EMERGENCY_RADIUS_KM", 15),
			DefaultPageSize:      getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:          getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100),
			Units:                units,
			NearbyCandidateLimit: getEnvAsInt("SEARCH_NEARBY_CANDIDATES", 500),
		},
		Timeouts: TimeoutsConfig{
			RemoteQuery:    getEnvAsDuration("TIMEOUT_REMOTE_QUERY", 5*time.Second),
			Geocode:        getEnvAsDuration("TIMEOUT_GEOCODE", 8*time.Second),
			PositionLookup: getEnvAsDuration("TIMEOUT_POSITION_LOOKUP", 10*time.Second),
			CacheOperation: getEnvAsDuration("TIMEOUT_CACHE", 500*time.Millisecond),
			ShutdownGrace:  getEnvAsDuration("TIMEOUT_SHUTDOWN", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourcePostgres, DataSourceTypesense, DataSourceFixture:
	default:
		return fmt.Errorf("unknown data source %q", c.DataSource)
	}

	if c.Search.DefaultRadiusKm <= 0 || c.Search.EmergencyRadiusKm <= 0 {
		return fmt.Errorf("search radius must be greater than zero")
	}
	if c.Search.DefaultPageSize <= 0 || c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("invalid page size settings: default=%d max=%d", c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	if c.Search.NearbyCandidateLimit <= 0 {
		return fmt.Errorf("nearby candidate limit must be greater than zero")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
