package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyarb/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.Scanner.MinProfit)
	assert.Equal(t, 20, cfg.Scanner.Concurrency)
	assert.Equal(t, 10000.0, cfg.Scanner.MinVolume)
	assert.Equal(t, 100, cfg.Scanner.MarketLimit)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "https://clob.polymarket.com", cfg.API.CLOBBase)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.API.GammaBase)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
scanner:
  interval_seconds: 60
  min_profit: 0.01
  min_volume: 5000
api:
  gamma_base: http://localhost:8080
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.ScanInterval())
	assert.Equal(t, 0.01, cfg.Scanner.MinProfit)
	assert.Equal(t, 5000.0, cfg.Scanner.MinVolume)
	assert.Equal(t, "http://localhost:8080", cfg.API.GammaBase)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Los campos no presentes caen a su default
	assert.Equal(t, 20, cfg.Scanner.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MIN_PROFIT_THRESHOLD", "0.005")
	t.Setenv("MARKET_LIMIT", "250")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.005, cfg.Scanner.MinProfit)
	assert.Equal(t, 250, cfg.Scanner.MarketLimit)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanner: [not a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
