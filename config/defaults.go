package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultTolerance         = 1e-8
	DefaultIdentityThreshold = 1e-6
	DefaultProofTimeout      = 5 * time.Second
	DefaultMaxTerms          = 20000
	DefaultMaxDegree         = 64
	DefaultCacheSize         = 5000
	DefaultRadius            = 8
	DefaultMaxRestarts       = 3
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultNamespace         = "geodiscover"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{
		Candidates: CandidatesConfig{Radius: DefaultRadius},
		Engine:     EngineConfig{MaxRestarts: DefaultMaxRestarts},
	}
	ApplyDefaults(cfg)

	return cfg
}

// ApplyDefaults fills zero fields whose zero value is not meaningful.
// Radius and restarts accept zero, so their defaults come from Default and
// the loader.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Prover.Tolerance == 0 {
		cfg.Prover.Tolerance = DefaultTolerance
	}
	if cfg.Prover.IdentityThreshold == 0 {
		cfg.Prover.IdentityThreshold = DefaultIdentityThreshold
	}
	if cfg.Prover.ProofTimeout == 0 {
		cfg.Prover.ProofTimeout = DefaultProofTimeout
	}
	if cfg.Prover.MaxTerms == 0 {
		cfg.Prover.MaxTerms = DefaultMaxTerms
	}
	if cfg.Prover.MaxDegree == 0 {
		cfg.Prover.MaxDegree = DefaultMaxDegree
	}
	if cfg.Prover.CacheSize == 0 {
		cfg.Prover.CacheSize = DefaultCacheSize
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("prover.tolerance", DefaultTolerance)
	v.SetDefault("prover.identity_threshold", DefaultIdentityThreshold)
	v.SetDefault("prover.proof_timeout", DefaultProofTimeout)
	v.SetDefault("prover.max_terms", DefaultMaxTerms)
	v.SetDefault("prover.max_degree", DefaultMaxDegree)
	v.SetDefault("prover.cache_size", DefaultCacheSize)
	v.SetDefault("candidates.radius", DefaultRadius)
	v.SetDefault("engine.max_restarts", DefaultMaxRestarts)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("store.path", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.namespace", DefaultNamespace)
}
