package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalidRoundWeights is returned when every round weight is zero.
var ErrInvalidRoundWeights = errors.New("at least one round weight must be positive")

// Load configuration from environment variables and optionally a config.yaml
// in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching the working directory. A missing file is an error.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// SCRY_SERVER_PORT overrides server.port and so on
	v.SetEnvPrefix("SCRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the rules that span several fields.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	r := cfg.Round
	if r.NeedsReinforcement+r.SomewhatFamiliar+r.WellKnown <= 0 {
		return fmt.Errorf("configuration validation failed: %w", ErrInvalidRoundWeights)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_seconds", 10)

	v.SetDefault("database.url", "")

	v.SetDefault("scheduler.policy", "sm2")
	v.SetDefault("scheduler.again_retry_minutes", 5)
	v.SetDefault("scheduler.max_interval_days", 36500)
	v.SetDefault("scheduler.min_ease_factor", 1.3)

	v.SetDefault("round.target_size", 30)
	v.SetDefault("round.needs_reinforcement_weight", 5)
	v.SetDefault("round.somewhat_familiar_weight", 3)
	v.SetDefault("round.well_known_weight", 2)

	v.SetDefault("due_queue.limit", 50)

	v.SetDefault("events.worker_count", 2)
	v.SetDefault("events.queue_size", 256)

	v.SetDefault("sessions.ttl_minutes", 120)
	v.SetDefault("sessions.max_sessions", 1000)
}
