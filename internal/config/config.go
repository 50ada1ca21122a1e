package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ywan0849/jsthermalcomfort/comfort"
)

// Config holds the settings of the comfort_calc CLI.
type Config struct {
	Units        string `json:"units" yaml:"units"`                 // "SI" | "IP"
	BodyPosition string `json:"body_position" yaml:"body_position"` // "standing" | "sitting" | "lying"
	Standard     string `json:"standard" yaml:"standard"`           // "ISO" | "ASHRAE"

	Wme             float64 `json:"wme" yaml:"wme"`
	BodySurfaceArea float64 `json:"body_surface_area" yaml:"body_surface_area"`
	PAtm            float64 `json:"p_atm" yaml:"p_atm"`

	LimitInputs *bool `json:"limit_inputs" yaml:"limit_inputs"`
	Round       *bool `json:"round" yaml:"round"`

	Workers  int    `json:"workers" yaml:"workers"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Load reads a YAML or JSON config file. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		applyDefaults(&cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension %q", ext)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Units == "" {
		cfg.Units = string(comfort.UnitsSI)
	}
	if cfg.BodyPosition == "" {
		cfg.BodyPosition = string(comfort.Standing)
	}
	if cfg.Standard == "" {
		cfg.Standard = string(comfort.StandardASHRAE)
	}
	if cfg.LimitInputs == nil {
		v := true
		cfg.LimitInputs = &v
	}
	if cfg.Round == nil {
		v := true
		cfg.Round = &v
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// ApplyEnvOverrides lets COMFORT_* environment variables override the file.
func ApplyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("COMFORT_UNITS"); v != "" {
		cfg.Units = v
	}
	if v := os.Getenv("COMFORT_BODY_POSITION"); v != "" {
		cfg.BodyPosition = v
	}
	if v := os.Getenv("COMFORT_STANDARD"); v != "" {
		cfg.Standard = v
	}
	if v := os.Getenv("COMFORT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COMFORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COMFORT_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	return nil
}

// Params validates the body settings and converts them for the comfort package.
func (c Config) Params() (comfort.Params, error) {
	units, err := comfort.ParseUnits(c.Units)
	if err != nil {
		return comfort.Params{}, err
	}
	position, err := comfort.ParseBodyPosition(c.BodyPosition)
	if err != nil {
		return comfort.Params{}, err
	}
	return comfort.Params{
		Wme:             c.Wme,
		BodySurfaceArea: c.BodySurfaceArea,
		PAtm:            c.PAtm,
		BodyPosition:    position,
		Units:           units,
	}, nil
}

// Options converts the post-processing settings. The logger is set by the caller.
func (c Config) Options() (comfort.Options, error) {
	if c.Workers < 0 {
		return comfort.Options{}, fmt.Errorf("%w: %d", comfort.ErrInvalidWorkers, c.Workers)
	}
	opts := comfort.DefaultOptions()
	if c.LimitInputs != nil {
		opts.LimitInputs = *c.LimitInputs
	}
	if c.Round != nil {
		opts.Round = *c.Round
	}
	opts.Workers = c.Workers
	return opts, nil
}
