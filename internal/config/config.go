package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/label-quantity/internal/quantity"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Port                 string
	ItemCount            int
	VolumeRange          quantity.Range
	Headcount            int
	EagerRecompute       bool
	Seed                 uint64
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
// Pointers distinguish an absent key from an explicit zero.
type yamlConfig struct {
	Port                 string          `yaml:"port"`
	ItemCount            *int            `yaml:"item_count"`
	VolumeRange          *quantity.Range `yaml:"volume_range"`
	Headcount            *int            `yaml:"headcount"`
	EagerRecompute       *bool           `yaml:"eager_recompute"`
	Seed                 *uint64         `yaml:"seed"`
	LogLevel             string          `yaml:"log_level"`
	ShutdownGracePeriod  string          `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string          `yaml:"read_header_timeout"`
	WriteTimeout         string          `yaml:"write_timeout"`
	IdleTimeout          string          `yaml:"idle_timeout"`
	EnableRequestLogging *bool           `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit   `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	ItemCount      *int
	VolumeRangeStr *string
	Headcount      *int
	EagerRecompute *bool
	Seed           *uint64
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ItemCount:            quantity.DefaultItemCount,
		VolumeRange:          quantity.DefaultVolumeRange,
		Headcount:            quantity.DefaultHeadcount,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}
	if yamlCfg.ItemCount != nil {
		cfg.ItemCount = *yamlCfg.ItemCount
	}
	if yamlCfg.VolumeRange != nil {
		cfg.VolumeRange = *yamlCfg.VolumeRange
	}
	if yamlCfg.Headcount != nil {
		cfg.Headcount = *yamlCfg.Headcount
	}
	if yamlCfg.EagerRecompute != nil {
		cfg.EagerRecompute = *yamlCfg.EagerRecompute
	}
	if yamlCfg.Seed != nil {
		cfg.Seed = *yamlCfg.Seed
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		raw    string
		target *time.Duration
		key    string
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod, "shutdown_grace_period"},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout, "read_header_timeout"},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout, "idle_timeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
// Unparseable values are ignored.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if raw := env("ITEM_COUNT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ItemCount = value
		}
	}

	if raw := env("VOLUME_MIN"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.VolumeRange.Min = value
		}
	}

	if raw := env("VOLUME_MAX"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.VolumeRange.Max = value
		}
	}

	if raw := env("HEADCOUNT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.Headcount = value
		}
	}

	if raw := env("EAGER_RECOMPUTE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.EagerRecompute = value
		}
	}

	if raw := env("SEED"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.Seed = value
		}
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.ItemCount != nil {
		cfg.ItemCount = *overrides.ItemCount
	}

	if overrides.VolumeRangeStr != nil && *overrides.VolumeRangeStr != "" {
		r, err := parseVolumeRange(*overrides.VolumeRangeStr)
		if err != nil {
			return fmt.Errorf("parse volume range: %w", err)
		}
		cfg.VolumeRange = r
	}

	if overrides.Headcount != nil {
		cfg.Headcount = *overrides.Headcount
	}

	if overrides.EagerRecompute != nil {
		cfg.EagerRecompute = *overrides.EagerRecompute
	}

	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.ItemCount < 0 {
		return fmt.Errorf("item count must be >= 0, got %d", cfg.ItemCount)
	}
	if cfg.VolumeRange.Min < 0 {
		return fmt.Errorf("volume minimum must be >= 0, got %d", cfg.VolumeRange.Min)
	}
	if cfg.VolumeRange.Min > cfg.VolumeRange.Max {
		return fmt.Errorf("volume range %s is inverted", cfg.VolumeRange)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return nil
}

// parseVolumeRange parses "min-max" into an inclusive range.
func parseVolumeRange(raw string) (quantity.Range, error) {
	minStr, maxStr, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return quantity.Range{}, fmt.Errorf("expected min-max, got %q", raw)
	}

	lo, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return quantity.Range{}, fmt.Errorf("invalid minimum %q", minStr)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return quantity.Range{}, fmt.Errorf("invalid maximum %q", maxStr)
	}
	if lo > hi {
		return quantity.Range{}, fmt.Errorf("minimum %d exceeds maximum %d", lo, hi)
	}

	return quantity.Range{Min: lo, Max: hi}, nil
}
