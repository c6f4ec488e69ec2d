package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("PORT", "9090")
	t.Setenv("CATEGORY_CACHE_TTL", "90s")
	t.Setenv("RATE_LIMIT", "10-S")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("BASE_CURRENCY", "usd")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.CategoryCacheTTL)
	assert.Equal(t, "10-S", cfg.RateLimit)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "USD", cfg.BaseCurrency)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CATEGORY_CACHE_TTL", "soon")
	t.Setenv("BASE_CURRENCY", "DIRHAM")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.CategoryCacheTTL)
	assert.Equal(t, "AED", cfg.BaseCurrency)
}
