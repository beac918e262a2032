package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix maps "prover.max_terms" to GEODISCOVER_PROVER_MAX_TERMS.
const envPrefix = "GEODISCOVER"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return v
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result. An empty path reads the environment
// only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	return finalize(v)
}

// LoadFromEnv builds a Config from GEODISCOVER_* variables and defaults.
func LoadFromEnv() (*Config, error) { return Load("") }

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
