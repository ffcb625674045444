package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-insightidr/internal/config"
)

func TestRegionURL(t *testing.T) {
	for _, region := range config.Regions() {
		t.Run(region, func(t *testing.T) {
			u, err := config.RegionURL(region)
			require.NoError(t, err)
			assert.Equal(t, "https://"+region+".api.insight.rapid7.com", u)
		})
	}

	t.Run("case insensitive", func(t *testing.T) {
		u, err := config.RegionURL("EU")
		require.NoError(t, err)
		assert.Equal(t, "https://eu.api.insight.rapid7.com", u)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := config.RegionURL("mars")
		require.ErrorIs(t, err, config.ErrUnknownRegion)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{APIKey: "k", Region: "us", TimeoutMS: 1000, LogFormat: "json"}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"missing api key", func(c *config.Config) { c.APIKey = "" }, "api_key"},
		{"bad region", func(c *config.Config) { c.Region = "mars" }, "region"},
		{"zero timeout", func(c *config.Config) { c.TimeoutMS = 0 }, "timeout_ms"},
		{"bad format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
		{"relative base url", func(c *config.Config) { c.BaseURL = "/api" }, "base_url"},
		{"base url ok", func(c *config.Config) { c.BaseURL = "http://localhost:8080" }, ""},
		{"metrics addr", func(c *config.Config) { c.MetricsAddr = ":9090" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	t.Run("region", func(t *testing.T) {
		cfg := config.Config{Region: "ca"}
		u, err := cfg.Endpoint()
		require.NoError(t, err)
		assert.Equal(t, "https://ca.api.insight.rapid7.com", u)
	})

	t.Run("base url overrides region and is trimmed", func(t *testing.T) {
		cfg := config.Config{Region: "ca", BaseURL: "https://proxy.example.com///"}
		u, err := cfg.Endpoint()
		require.NoError(t, err)
		assert.Equal(t, "https://proxy.example.com", u)
	})

	t.Run("relative base url", func(t *testing.T) {
		cfg := config.Config{BaseURL: "proxy"}
		_, err := cfg.Endpoint()
		assert.Error(t, err)
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INSIGHTIDR_API_KEY", "secret")

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, config.DefaultRegion, cfg.Region)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("INSIGHTIDR_API_KEY", "")

	_, err := config.Load(config.LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := "api_key: from-file\nregion: eu\ntimeout_ms: 5000\nlog_format: console\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("INSIGHTIDR_API_KEY", "")
	t.Setenv("INSIGHTIDR_REGION", "AU")

	cfg, err := config.Load(config.LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "au", cfg.Region, "environment wins over the file")
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("INSIGHTIDR_TIMEOUT_MS=1500\n"), 0o600))

	t.Setenv("INSIGHTIDR_API_KEY", "k")
	t.Cleanup(func() { _ = os.Unsetenv("INSIGHTIDR_TIMEOUT_MS") })

	cfg, err := config.Load(config.LoadOptions{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("INSIGHTIDR_API_KEY", "k")

	_, err := config.Load(config.LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yml")})
	assert.Error(t, err)
}
