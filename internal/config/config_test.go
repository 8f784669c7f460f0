package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, 2001, cfg.StartYear)
	assert.Equal(t, 2022, cfg.EndYear)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.False(t, cfg.DatabaseEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("START_YEAR", "1995")
	t.Setenv("END_YEAR", "2005")
	t.Setenv("CACHE_DIR", "/tmp/climate-cache")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1995, cfg.StartYear)
	assert.Equal(t, 2005, cfg.EndYear)
	assert.Equal(t, "/tmp/climate-cache", cfg.CacheDir)
}

func TestValidate_YearOrder(t *testing.T) {
	t.Setenv("START_YEAR", "2010")
	t.Setenv("END_YEAR", "2005")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestValidate_RequiredPaths(t *testing.T) {
	cfg := config.Config{
		CacheDir:    "",
		CatalogPath: "stations.csv",
		OutputDir:   "out",
		StartYear:   2001,
		EndYear:     2002,
		Concurrency: 1,
	}
	assert.ErrorIs(t, cfg.Validate(), config.ErrConfiguration)

	cfg.CacheDir = "cache"
	cfg.Concurrency = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrConfiguration)

	cfg.Concurrency = 2
	assert.NoError(t, cfg.Validate())
}
