// Package config loads layered settings for the quad CLI: built-in defaults,
// then an optional YAML file, then QUAD_* environment variables, then
// command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. QUAD_WORKERS or
// QUAD_STUDY_FLOOR for study.floor.
const EnvPrefix = "QUAD"

// Config is the complete CLI configuration.
type Config struct {
	// Format is the output format: "text" or "json".
	Format string `mapstructure:"format"`

	// Verbose enables diagnostic output on stderr.
	Verbose bool `mapstructure:"verbose"`

	// Workers is the goroutine count for sample evaluation; 0 or 1 is serial.
	Workers int `mapstructure:"workers"`

	// DB is the results database path used by study, history and replay.
	DB string `mapstructure:"db"`

	Study StudyConfig `mapstructure:"study"`
}

// StudyConfig holds the defaults applied to studies that omit them.
type StudyConfig struct {
	Floor     float64 `mapstructure:"floor"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:  "text",
		Verbose: false,
		Workers: 0,
		DB:      "quad.db",
		Study: StudyConfig{
			Floor:     1e-12,
			Tolerance: 0.2,
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("db", defaults.DB)
	v.SetDefault("study.floor", defaults.Study.Floor)
	v.SetDefault("study.tolerance", defaults.Study.Tolerance)
}

// New returns a viper instance with defaults, the config file and the
// environment wired up.
//
// An explicit configFile must exist. Without one, ./quad.yaml is read if
// present.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("quad")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}
