// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ride_console/platform/validator"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the console HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// BackendConfig provides settings for the ride-booking backend API client.
type BackendConfig interface {
	GetBackendBaseURL() string
	GetBackendTimeout() time.Duration
}

// GeocoderConfig provides settings for the address geocoding provider.
type GeocoderConfig interface {
	GetGeocoderProvider() string
	GetMapboxAccessToken() string
	GetMapboxBaseURL() string
	GetNominatimURL() string
	GetGeocoderRatePerSec() float64
	GetGeocoderTimeout() time.Duration
}

// ConsoleConfig provides settings for the console view state.
type ConsoleConfig interface {
	GetDefaultRegion() string
	GetMapViewportWidth() int
	GetMapViewportHeight() int
}

// LiveConfig provides settings for the live snapshot feed.
type LiveConfig interface {
	GetLiveBuffer() int
}

// Geocoder providers.
const (
	ProviderMapbox    = "mapbox"
	ProviderNominatim = "nominatim"
)

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string        `yaml:"env" validate:"required"`
	HTTPAddr           string        `yaml:"http_addr" validate:"required"`
	CORSAllowAll       bool          `yaml:"cors_allow_all"`
	CORSOrigins        []string      `yaml:"cors_origins"`
	BackendBaseURL     string        `yaml:"backend_base_url" validate:"required,url"`
	BackendTimeout     time.Duration `yaml:"backend_timeout" validate:"gt=0"`
	GeocoderProvider   string        `yaml:"geocoder_provider" validate:"oneof=mapbox nominatim"`
	MapboxAccessToken  string        `yaml:"mapbox_access_token"`
	MapboxBaseURL      string        `yaml:"mapbox_base_url" validate:"required,url"`
	NominatimURL       string        `yaml:"nominatim_url" validate:"required,url"`
	GeocoderRatePerSec float64       `yaml:"geocoder_rate_per_sec" validate:"gte=0"`
	GeocoderTimeout    time.Duration `yaml:"geocoder_timeout" validate:"gt=0"`
	DefaultRegion      string        `yaml:"default_region" validate:"len=2"`
	MapViewportWidth   int           `yaml:"map_viewport_width" validate:"gt=0"`
	MapViewportHeight  int           `yaml:"map_viewport_height" validate:"gt=0"`
	LiveBuffer         int           `yaml:"live_buffer" validate:"gt=0"`
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// BackendConfig implementation
func (c *Config) GetBackendBaseURL() string        { return c.BackendBaseURL }
func (c *Config) GetBackendTimeout() time.Duration { return c.BackendTimeout }

// GeocoderConfig implementation
func (c *Config) GetGeocoderProvider() string       { return c.GeocoderProvider }
func (c *Config) GetMapboxAccessToken() string      { return c.MapboxAccessToken }
func (c *Config) GetMapboxBaseURL() string          { return c.MapboxBaseURL }
func (c *Config) GetNominatimURL() string           { return c.NominatimURL }
func (c *Config) GetGeocoderRatePerSec() float64    { return c.GeocoderRatePerSec }
func (c *Config) GetGeocoderTimeout() time.Duration { return c.GeocoderTimeout }

// ConsoleConfig implementation
func (c *Config) GetDefaultRegion() string  { return c.DefaultRegion }
func (c *Config) GetMapViewportWidth() int  { return c.MapViewportWidth }
func (c *Config) GetMapViewportHeight() int { return c.MapViewportHeight }

// LiveConfig implementation
func (c *Config) GetLiveBuffer() int { return c.LiveBuffer }

// IsDevelopment reports whether the console runs in development mode.
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

// Defaults returns the configuration used when neither a file nor the
// environment overrides a key.
func Defaults() *Config {
	return &Config{
		Env:                "development",
		HTTPAddr:           ":8080",
		CORSOrigins:        []string{"http://localhost:4200"},
		BackendBaseURL:     "https://ride-sharing-app-zm7p.onrender.com",
		BackendTimeout:     30 * time.Second,
		GeocoderProvider:   ProviderMapbox,
		MapboxBaseURL:      "https://api.mapbox.com",
		NominatimURL:       "https://nominatim.openstreetmap.org/search",
		GeocoderRatePerSec: 1,
		GeocoderTimeout:    10 * time.Second,
		DefaultRegion:      "IN",
		MapViewportWidth:   800,
		MapViewportHeight:  500,
		LiveBuffer:         16,
	}
}

// Load reads configuration from an optional YAML file (CONSOLE_CONFIG_FILE)
// and then from environment variables. Environment values win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := getEnv("CONSOLE_CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideString(&cfg.Env, "APP_ENV")
	overrideString(&cfg.HTTPAddr, "HTTP_ADDR")
	if val, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitCSV(val)
	}
	if val, ok := os.LookupEnv("CORS_ALLOW_ALL"); ok {
		cfg.CORSAllowAll = strings.EqualFold(val, "true")
	}
	if containsWildcard(cfg.CORSOrigins) {
		cfg.CORSAllowAll = true
	}
	overrideString(&cfg.BackendBaseURL, "BACKEND_BASE_URL")
	cfg.BackendBaseURL = strings.TrimRight(cfg.BackendBaseURL, "/")
	if err := overrideDuration(&cfg.BackendTimeout, "BACKEND_TIMEOUT"); err != nil {
		return nil, err
	}
	overrideString(&cfg.GeocoderProvider, "GEOCODER_PROVIDER")
	cfg.GeocoderProvider = strings.ToLower(strings.TrimSpace(cfg.GeocoderProvider))
	overrideString(&cfg.MapboxAccessToken, "MAPBOX_ACCESS_TOKEN")
	overrideString(&cfg.MapboxBaseURL, "MAPBOX_BASE_URL")
	cfg.MapboxBaseURL = strings.TrimRight(cfg.MapboxBaseURL, "/")
	overrideString(&cfg.NominatimURL, "NOMINATIM_URL")
	if val, ok := os.LookupEnv("GEOCODER_RATE_PER_SEC"); ok {
		rate, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("GEOCODER_RATE_PER_SEC: %w", err)
		}
		cfg.GeocoderRatePerSec = rate
	}
	if err := overrideDuration(&cfg.GeocoderTimeout, "GEOCODER_TIMEOUT"); err != nil {
		return nil, err
	}
	overrideString(&cfg.DefaultRegion, "DEFAULT_REGION")
	cfg.DefaultRegion = strings.ToUpper(cfg.DefaultRegion)
	if err := overrideInt(&cfg.MapViewportWidth, "MAP_VIEWPORT_WIDTH"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.MapViewportHeight, "MAP_VIEWPORT_HEIGHT"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.LiveBuffer, "LIVE_BUFFER"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.CORSAllowAll {
		// cors rejects an origin list alongside AllowAllOrigins.
		cfg.CORSOrigins = nil
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func overrideString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
	}
}

func overrideDuration(target *time.Duration, key string) error {
	val, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(target *int, key string) error {
	val, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = n
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
