// Package config loads server settings from a YAML file, an optional .env
// file and INSIGHTIDR_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "INSIGHTIDR"

// Defaults.
const (
	DefaultRegion    = "us"
	DefaultTimeoutMS = 30000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// regions maps a region code to its API host. It is never written after init.
var regions = map[string]string{
	"us":  "https://us.api.insight.rapid7.com",
	"us2": "https://us2.api.insight.rapid7.com",
	"us3": "https://us3.api.insight.rapid7.com",
	"eu":  "https://eu.api.insight.rapid7.com",
	"ca":  "https://ca.api.insight.rapid7.com",
	"au":  "https://au.api.insight.rapid7.com",
	"ap":  "https://ap.api.insight.rapid7.com",
}

// ErrUnknownRegion is returned by RegionURL for a region outside the table.
var ErrUnknownRegion = errors.New("unknown region")

// RegionURL returns the API base URL for a region code.
func RegionURL(region string) (string, error) {
	u, ok := regions[strings.ToLower(region)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return u, nil
}

// Regions returns the supported region codes.
func Regions() []string {
	return []string{"us", "us2", "us3", "eu", "ca", "au", "ap"}
}

// Config holds the resolved server settings.
type Config struct {
	APIKey      string `mapstructure:"api_key" validate:"required"`
	Region      string `mapstructure:"region" validate:"required,oneof=us us2 us3 eu ca au ap"`
	BaseURL     string `mapstructure:"base_url" validate:"omitempty,url,startswith=http"`
	TimeoutMS   int    `mapstructure:"timeout_ms" validate:"gt=0"`
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json console"`
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Validate checks the struct tags and returns the first failing fields
// joined into one error.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", keyFor(fe.StructField()), fe.Tag()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// Endpoint returns the API base URL with trailing slashes removed. An
// explicit base_url wins over the region table.
func (c *Config) Endpoint() (string, error) {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("config: base_url %q is not an absolute URL", c.BaseURL)
		}
		return strings.TrimRight(c.BaseURL, "/"), nil
	}
	return RegionURL(c.Region)
}

// Timeout returns TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// LoadOptions names optional files to read.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Load resolves configuration. Precedence, lowest first: defaults, the YAML
// config file, then the environment (which a .env file populates without
// overriding variables already set).
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_key", "")
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_ms", DefaultTimeoutMS)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("metrics_addr", "")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" && fileExists(".env") {
		envFile = ".env"
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Region = strings.ToLower(cfg.Region)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func keyFor(field string) string {
	switch field {
	case "APIKey":
		return "api_key"
	case "BaseURL":
		return "base_url"
	case "TimeoutMS":
		return "timeout_ms"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	case "MetricsAddr":
		return "metrics_addr"
	default:
		return strings.ToLower(field)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
