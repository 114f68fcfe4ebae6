package api

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultCORSAllowedOrigin, cfg.CORSAllowedOrigin)
	assert.Equal(t, DefaultCatalogCacheTTL, cfg.CatalogCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "INSTRUMENTOS_SESSION", cfg.SessionCookieName)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.OrderLocation.String())
	assert.Equal(t, "ARS", cfg.MercadoPago.Currency)
	assert.Empty(t, cfg.MercadoPago.AccessToken)
	assert.Nil(t, cfg.SessionSecret)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(envMap(map[string]string{
		"PORT":                      "9090",
		"REDIS_ADDR":                "localhost:6379",
		"REDIS_DB":                  "2",
		"CATALOG_CACHE_TTL_SECONDS": "30",
		"SESSION_TTL_HOURS":         "2",
		"SESSION_SECRET":            strings.Repeat("s", 32),
		"ORDER_TIMEZONE":            "UTC",
		"TEMPORAL_DISABLED":         "true",
		"ADMIN_USERNAME":            "admin",
		"ADMIN_PASSWORD":            "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Len(t, cfg.SessionSecret, 32)
	assert.Equal(t, time.UTC.String(), cfg.OrderLocation.String())
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoadConfig_Invalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"cache ttl":      {"CATALOG_CACHE_TTL_SECONDS": "0"},
		"session ttl":    {"SESSION_TTL_HOURS": "soon"},
		"redis db":       {"REDIS_DB": "-1"},
		"short secret":   {"SESSION_SECRET": "short"},
		"unknown zone":   {"ORDER_TIMEZONE": "Mars/Olympus"},
		"admin half set": {"ADMIN_USERNAME": "admin"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(envMap(env))
			require.Error(t, err)
		})
	}
}
