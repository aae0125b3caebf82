package config

import (
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with memory backend", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_BACKEND", "memory")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, BackendMemory, cfg.StoreBackend)
		assert.Equal(t, 30*24*time.Hour, cfg.RecycleRetention)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.True(t, cfg.MetricsEnabled)
		assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "postgres://planner@localhost/planner")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "JSON")
		t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("RECYCLE_RETENTION", "168h")
		t.Setenv("METRICS_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
		assert.Equal(t, 168*time.Hour, cfg.RecycleRetention)
		assert.False(t, cfg.MetricsEnabled)
	})

	t.Run("postgres requires database url", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("jwt secret is required", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("STORE_BACKEND", "memory")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "memory")

	t.Run("defaults to none", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.TrustedProxies)
	})

	t.Run("accepts ranges and addresses", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("192.0.2.10/32"),
		}, cfg.TrustedProxies)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "not-an-ip")

		_, err := Load()
		assert.ErrorContains(t, err, "TRUSTED_PROXIES")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:       "8080",
			RequestTimeout:   time.Second,
			StoreBackend:     BackendMemory,
			DBMaxConns:       4,
			DBMinConns:       1,
			JWTSecret:        "secret",
			LogFormat:        "pretty",
			RecycleRetention: time.Hour,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.StoreBackend = "sqlite" }},
		{"min above max", func(c *Config) { c.DBMinConns = 9 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero retention", func(c *Config) { c.RecycleRetention = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("RECYCLE_RETENTION", "48h")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.RecycleRetention)

	_, err = Load()
	assert.Error(t, err)
}
