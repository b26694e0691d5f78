// Package config loads seqalign configuration from, in increasing priority:
//  1. defaults in code,
//  2. an optional YAML file,
//  3. SEQALIGN_* environment variables,
//
// and validates the result with struct tags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/seqalign/align"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEQALIGN_"

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all application configuration.
type Config struct {
	Align   AlignConfig   `yaml:"align"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`

	// HotReload re-reads the config file on change while serving.
	// Only the align section takes effect without a restart.
	HotReload bool `yaml:"hot_reload"`
}

// AlignConfig holds the defaults applied when a request omits a field,
// plus the policy the service enforces around the core.
type AlignConfig struct {
	Mode            string `yaml:"mode" validate:"required,alignmode"`
	Match           int    `yaml:"match"`
	Mismatch        int    `yaml:"mismatch"`
	Gap             int    `yaml:"gap"`
	GapMarker       string `yaml:"gap_marker" validate:"required,len=1,gapmarker"`
	MaxCells        int    `yaml:"max_cells" validate:"gte=0"`
	RequireNonEmpty bool   `yaml:"require_non_empty"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" validate:"gt=0"`
	AllowedOrigins  []string      `yaml:"allowed_origins" validate:"dive,required"`
}

// MetricsConfig toggles the prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required,alphanum"`
}

// Default returns the built-in configuration. Scoring follows
// align.DefaultScoring and empty sequences are rejected.
func Default() *Config {
	sc := align.DefaultScoring()

	return &Config{
		Align: AlignConfig{
			Mode:            align.Global.String(),
			Match:           sc.Match,
			Mismatch:        sc.Mismatch,
			Gap:             sc.Gap,
			GapMarker:       string(align.DefaultGapMarker),
			MaxCells:        4_000_000,
			RequireNonEmpty: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "seqalign",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeYAML overlays raw onto cfg and rejects unknown keys.
// An empty document leaves cfg untouched.
func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// applyEnv overlays SEQALIGN_* variables. lookup is os.LookupEnv outside tests.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, err))

				return
			}
			*dst = n
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			var out []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					out = append(out, item)
				}
			}
			*dst = out
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = parseBool(v)
		}
	}

	str("MODE", &cfg.Align.Mode)
	num("MATCH", &cfg.Align.Match)
	num("MISMATCH", &cfg.Align.Mismatch)
	num("GAP", &cfg.Align.Gap)
	str("GAP_MARKER", &cfg.Align.GapMarker)
	num("MAX_CELLS", &cfg.Align.MaxCells)
	flag("REQUIRE_NON_EMPTY", &cfg.Align.RequireNonEmpty)
	str("LOG_LEVEL", &cfg.Log.Level)
	flag("LOG_DEVELOPMENT", &cfg.Log.Development)
	str("SERVER_ADDR", &cfg.Server.Addr)
	list("SERVER_ALLOWED_ORIGINS", &cfg.Server.AllowedOrigins)
	flag("METRICS_ENABLED", &cfg.Metrics.Enabled)
	str("METRICS_NAMESPACE", &cfg.Metrics.Namespace)
	flag("HOT_RELOAD", &cfg.HotReload)

	return errors.Join(errs...)
}

// parseBool accepts true/1/yes (any case); everything else is false.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// AlignMode returns the parsed default mode. Validate guarantees it parses.
func (c AlignConfig) AlignMode() align.Mode {
	m, err := align.ParseMode(c.Mode)
	if err != nil {
		return align.Global
	}

	return m
}

// Scoring returns the default scoring parameters.
func (c AlignConfig) Scoring() align.Scoring {
	return align.Scoring{Match: c.Match, Mismatch: c.Mismatch, Gap: c.Gap}
}

// Marker returns the gap marker rune.
func (c AlignConfig) Marker() rune {
	r := []rune(c.GapMarker)
	if len(r) == 0 {
		return align.DefaultGapMarker
	}

	return r[0]
}

// Options translates the policy fields into align options.
func (c AlignConfig) Options() []align.Option {
	opts := []align.Option{
		align.WithGapMarker(c.Marker()),
		align.WithMaxCells(c.MaxCells),
	}
	if c.RequireNonEmpty {
		opts = append(opts, align.WithRequireNonEmpty())
	}

	return opts
}
