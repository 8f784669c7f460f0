// Package config loads scorer configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrConfiguration marks fatal configuration problems. Unlike data-quality
// issues these surface immediately and stop the process.
var ErrConfiguration = errors.New("configuration error")

// Config holds every runtime setting. Values come from the environment with
// an optional .env file for local development.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"APP_PORT" default:"8080"`

	// CacheDir is the root of the raw-record and series caches.
	CacheDir string `envconfig:"CACHE_DIR" default:"cache"`
	// CatalogPath is the station catalog CSV.
	CatalogPath string `envconfig:"STATION_CATALOG" default:"stations.csv"`
	// OutputDir receives one CSV per criterion.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"out"`

	StartYear   int `envconfig:"START_YEAR" default:"2001"`
	EndYear     int `envconfig:"END_YEAR" default:"2022"`
	Concurrency int `envconfig:"CONCURRENCY" default:"4"`

	ProviderBaseURL string `envconfig:"PROVIDER_BASE_URL" default:"https://climate.weather.gc.ca"`

	// DatabaseEnabled turns on result persistence through PostgreSQL;
	// without it results go to the in-memory repository and CSV files only.
	DatabaseEnabled bool `envconfig:"DB_ENABLED" default:"false"`

	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

// Load reads the optional .env file, then the environment, then validates.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings the process cannot run without.
func (c Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("%w: CACHE_DIR must not be empty", ErrConfiguration)
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: STATION_CATALOG must not be empty", ErrConfiguration)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: OUTPUT_DIR must not be empty", ErrConfiguration)
	}
	if c.StartYear > c.EndYear {
		return fmt.Errorf("%w: START_YEAR %d is after END_YEAR %d", ErrConfiguration, c.StartYear, c.EndYear)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: CONCURRENCY must be positive", ErrConfiguration)
	}
	return nil
}
