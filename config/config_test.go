package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/cas"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geodiscover.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTolerance, cfg.Prover.Tolerance)
	assert.Equal(t, DefaultProofTimeout, cfg.Prover.ProofTimeout)
	assert.Equal(t, DefaultRadius, cfg.Candidates.Radius)
	assert.Equal(t, DefaultMaxRestarts, cfg.Engine.MaxRestarts)
	assert.Equal(t, cas.DefaultLimits(), cfg.Limits())
	assert.Len(t, cfg.ProverOptions(), 5)
	assert.Len(t, cfg.EngineOptions(), 3)
	assert.Equal(t, DefaultNamespace, cfg.Collector().Namespace)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
prover:
  proof_timeout: 250ms
  max_terms: 500
candidates:
  radius: 0
engine:
  max_restarts: 0
log:
  level: debug
  format: console
store:
  path: /tmp/verdicts.db
metrics:
  addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Prover.ProofTimeout)
	assert.Equal(t, 500, cfg.Prover.MaxTerms)
	assert.Equal(t, DefaultMaxDegree, cfg.Prover.MaxDegree)
	assert.Zero(t, cfg.Candidates.Radius)
	assert.Zero(t, cfg.Engine.MaxRestarts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.Equal(t, "/tmp/verdicts.db", cfg.Store.Path)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GEODISCOVER_PROVER_CACHE_SIZE", "42")
	t.Setenv("GEODISCOVER_CANDIDATES_RADIUS", "-1")
	t.Setenv("GEODISCOVER_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Prover.CacheSize)
	assert.Equal(t, -1, cfg.Candidates.Radius)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultMaxRestarts, cfg.Engine.MaxRestarts)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "prover:\n  tolerance: -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"tolerance", func(c *Config) { c.Prover.Tolerance = 0 }},
		{"identity", func(c *Config) { c.Prover.IdentityThreshold = -1 }},
		{"timeout", func(c *Config) { c.Prover.ProofTimeout = -time.Second }},
		{"terms", func(c *Config) { c.Prover.MaxTerms = 0 }},
		{"degree", func(c *Config) { c.Prover.MaxDegree = 0 }},
		{"cache", func(c *Config) { c.Prover.CacheSize = 0 }},
		{"restarts", func(c *Config) { c.Engine.MaxRestarts = -1 }},
		{"namespace", func(c *Config) { c.Metrics.Namespace = "" }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
