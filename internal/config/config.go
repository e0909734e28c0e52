// Package config provides configuration loading and validation for the
// janitor. Supports YAML files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// MaxPageSize is the largest MaxItems the Lambda list APIs accept.
const MaxPageSize = 50

// Config holds all configuration for the janitor.
type Config struct {
	Janitor       JanitorConfig       `yaml:"janitor"`
	Lambda        LambdaConfig        `yaml:"lambda"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type JanitorConfig struct {
	// VersionsToKeep is how many of the most recent versions of each
	// function survive regardless of aliases.
	VersionsToKeep int    `yaml:"versionsToKeep"`
	DryRun         bool   `yaml:"dryRun"`
	Schedule       string `yaml:"schedule"`
}

type LambdaConfig struct {
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	AccessKey   string `yaml:"accessKey"`
	SecretKey   string `yaml:"secretKey"`
	MaxAttempts int    `yaml:"maxAttempts"`
	PageSize    int    `yaml:"pageSize"`
}

type ObservabilityConfig struct {
	MetricsAddr string `yaml:"metricsAddr"`
	LogLevel    string `yaml:"logLevel"`
	LogFormat   string `yaml:"logFormat"`
}

type envKind int

const (
	envString envKind = iota
	envInt
	envBool
)

type envKey struct {
	path string
	kind envKind
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]envKey{
	"VERSIONS_TO_KEEP":            {"janitor.versionsToKeep", envInt},
	"JANITOR_DRY_RUN":             {"janitor.dryRun", envBool},
	"JANITOR_SCHEDULE":            {"janitor.schedule", envString},
	"JANITOR_LAMBDA_REGION":       {"lambda.region", envString},
	"JANITOR_LAMBDA_ENDPOINT":     {"lambda.endpoint", envString},
	"JANITOR_LAMBDA_ACCESS_KEY":   {"lambda.accessKey", envString},
	"JANITOR_LAMBDA_SECRET_KEY":   {"lambda.secretKey", envString},
	"JANITOR_LAMBDA_MAX_ATTEMPTS": {"lambda.maxAttempts", envInt},
	"JANITOR_LAMBDA_PAGE_SIZE":    {"lambda.pageSize", envInt},
	"JANITOR_METRICS_ADDR":        {"observability.metricsAddr", envString},
	"JANITOR_LOG_LEVEL":           {"observability.logLevel", envString},
	"JANITOR_LOG_FORMAT":          {"observability.logFormat", envString},
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Janitor: JanitorConfig{
			VersionsToKeep: 0,
			Schedule:       "@every 1h",
		},
		Lambda: LambdaConfig{
			MaxAttempts: 3,
			PageSize:    MaxPageSize,
		},
		Observability: ObservabilityConfig{
			MetricsAddr: ":9090",
			LogLevel:    "info",
			LogFormat:   "json",
		},
	}
}

// Load builds a Config from defaults and environment variables.
func Load() (*Config, error) {
	return load(koanf.New("."))
}

// LoadFromPath reads a YAML file on top of the defaults, then applies
// environment overrides.
func LoadFromPath(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return load(k)
}

func load(k *koanf.Koanf) (*Config, error) {
	if err := loadEnvironmentVariables(k); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvironmentVariables layers the variables named in envKeys over k.
// An integer that does not parse becomes zero, so a malformed
// VERSIONS_TO_KEEP protects only aliased versions.
func loadEnvironmentVariables(k *koanf.Koanf) error {
	var errs []error
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		ek, ok := envKeys[key]
		if !ok {
			return "", nil
		}
		value = strings.TrimSpace(value)

		switch ek.kind {
		case envInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				n = 0
			}
			return ek.path, n
		case envBool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, value))
				return "", nil
			}
			return ek.path, b
		default:
			return ek.path, value
		}
	}), nil)
	if err != nil {
		return fmt.Errorf("config: load environment: %w", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// normalize clamps values that have a lenient reading.
func (c *Config) normalize() {
	if c.Janitor.VersionsToKeep < 0 {
		c.Janitor.VersionsToKeep = 0
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Janitor.VersionsToKeep < 0 {
		errs = append(errs, errors.New("janitor.versionsToKeep must not be negative"))
	}
	if c.Janitor.Schedule != "" {
		if _, err := cron.ParseStandard(c.Janitor.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("janitor.schedule: %w", err))
		}
	}
	if c.Lambda.MaxAttempts < 0 {
		errs = append(errs, errors.New("lambda.maxAttempts must not be negative"))
	}
	if c.Lambda.PageSize < 0 || c.Lambda.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("lambda.pageSize must be between 0 and %d", MaxPageSize))
	}
	if (c.Lambda.AccessKey == "") != (c.Lambda.SecretKey == "") {
		errs = append(errs, errors.New("lambda.accessKey and lambda.secretKey must be set together"))
	}
	switch strings.ToLower(c.Observability.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("observability.logLevel: unknown level %q", c.Observability.LogLevel))
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("observability.logFormat: unknown format %q", c.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
