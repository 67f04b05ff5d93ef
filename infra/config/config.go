package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/internal/risk"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the demo trading core.
type Config struct {
	Risk risk.Parameters `yaml:"risk"`

	Trade struct {
		InitialCash  float64 `yaml:"initial_cash" default:"1000000" validate:"gt=0"`
		SlippageRate float64 `yaml:"slippage_rate" default:"0.001" validate:"gte=0,lt=1"`
	} `yaml:"trade"`

	Ensemble struct {
		Trees          int   `yaml:"trees" default:"100" validate:"gt=0"`
		SequenceLength int   `yaml:"sequence_length" default:"60" validate:"gt=1"`
		Seed           int64 `yaml:"seed" default:"1"`
	} `yaml:"ensemble"`
}

// Load reads the configuration from the given yaml file,
// fills in defaults and validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("could not apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not load config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("could not unmarshal config from %s: %w", path, err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads the config for the given path and panics on failure.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("could not load config: %s", err.Error()))
	}
	log.Info().Str("path", path).Msg("loaded config")
	return cfg
}
