// Package config loads the runtime configuration from pavecost.yaml, the
// environment (prefix PAVECOST) and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PAVECOST_SIMULATION_SAMPLES.
const EnvPrefix = "PAVECOST"

// Config keys.
const (
	KeySamples        = "simulation.samples"
	KeySeed           = "simulation.seed"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyMetricsEnabled = "metrics.enabled"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Simulation controls the Monte Carlo batch.
type Simulation struct {
	Samples int    `mapstructure:"samples" validate:"gte=1,lte=10000000"`
	Seed    uint64 `mapstructure:"seed"` // 0 picks a time-based seed
}

// Log selects the slog handler.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Metrics toggles the Prometheus dump after each command.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the resolved configuration.
type Config struct {
	Simulation Simulation `mapstructure:"simulation"`
	Log        Log        `mapstructure:"log"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// New returns a viper instance with defaults and environment binding. When
// file is empty, pavecost.yaml is searched in the working directory and is
// optional.
func New(file string) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySamples, 100_000)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyMetricsEnabled, false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("pavecost")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration file (if any) into v and decodes it. A
// missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}
