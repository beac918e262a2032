// Package config loads geodiscover settings from YAML and GEODISCOVER_*
// environment variables and turns them into component options.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/discover"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/metrics"
	"github.com/katalvlaran/geodiscover/prover"
)

// ErrInvalid marks a setting out of range.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the full settings tree.
type Config struct {
	Prover     ProverConfig      `mapstructure:"prover"`
	Candidates CandidatesConfig  `mapstructure:"candidates"`
	Engine     EngineConfig      `mapstructure:"engine"`
	Log        logging.LogConfig `mapstructure:"log"`
	Store      StoreConfig       `mapstructure:"store"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// ProverConfig tunes the relation prover.
type ProverConfig struct {
	Tolerance         float64       `mapstructure:"tolerance"`
	IdentityThreshold float64       `mapstructure:"identity_threshold"`
	ProofTimeout      time.Duration `mapstructure:"proof_timeout"`
	MaxTerms          int           `mapstructure:"max_terms"`
	MaxDegree         int           `mapstructure:"max_degree"`
	CacheSize         int           `mapstructure:"cache_size"`
}

// CandidatesConfig tunes the candidate generator.
type CandidatesConfig struct {
	// Radius is the hop bound around the focus; negative is unbounded.
	Radius int `mapstructure:"radius"`
}

// EngineConfig tunes Discover.
type EngineConfig struct {
	MaxRestarts int `mapstructure:"max_restarts"`
}

// StoreConfig locates the verdict archive; an empty path disables it.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig configures the Prometheus endpoint of watch mode.
type MetricsConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Prover.Tolerance <= 0:
		return fmt.Errorf("prover.tolerance %g must be > 0: %w", c.Prover.Tolerance, ErrInvalid)
	case c.Prover.IdentityThreshold <= 0:
		return fmt.Errorf("prover.identity_threshold %g must be > 0: %w", c.Prover.IdentityThreshold, ErrInvalid)
	case c.Prover.ProofTimeout < 0:
		return fmt.Errorf("prover.proof_timeout %s must be >= 0: %w", c.Prover.ProofTimeout, ErrInvalid)
	case c.Prover.MaxTerms < 1:
		return fmt.Errorf("prover.max_terms %d must be >= 1: %w", c.Prover.MaxTerms, ErrInvalid)
	case c.Prover.MaxDegree < 1:
		return fmt.Errorf("prover.max_degree %d must be >= 1: %w", c.Prover.MaxDegree, ErrInvalid)
	case c.Prover.CacheSize < 1:
		return fmt.Errorf("prover.cache_size %d must be >= 1: %w", c.Prover.CacheSize, ErrInvalid)
	case c.Engine.MaxRestarts < 0:
		return fmt.Errorf("engine.max_restarts %d must be >= 0: %w", c.Engine.MaxRestarts, ErrInvalid)
	case c.Metrics.Namespace == "":
		return fmt.Errorf("metrics.namespace is required: %w", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console: %w", c.Log.Format, ErrInvalid)
	}

	return nil
}

// Limits returns the symbolic budget.
func (c *Config) Limits() cas.Limits {
	return cas.Limits{MaxTerms: c.Prover.MaxTerms, MaxDegree: c.Prover.MaxDegree}
}

// ProverOptions returns the prover settings as options. Callers append
// logger, metrics and archive.
func (c *Config) ProverOptions() []prover.Option {
	return []prover.Option{
		prover.WithTolerance(c.Prover.Tolerance),
		prover.WithIdentityThreshold(c.Prover.IdentityThreshold),
		prover.WithProofTimeout(c.Prover.ProofTimeout),
		prover.WithLimits(c.Limits()),
		prover.WithCacheSize(c.Prover.CacheSize),
	}
}

// EngineOptions returns the engine settings as options.
func (c *Config) EngineOptions() []discover.Option {
	return []discover.Option{
		discover.WithRadius(c.Candidates.Radius),
		discover.WithTolerance(c.Prover.Tolerance),
		discover.WithMaxRestarts(c.Engine.MaxRestarts),
	}
}

// Collector returns the metrics collector settings.
func (c *Config) Collector() metrics.Config {
	return metrics.Config{Namespace: c.Metrics.Namespace, Runtime: true}
}
