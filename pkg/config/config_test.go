package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tienda-erp", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.DocsEnabled)
	assert.True(t, cfg.Business.TaxRate.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, 60*time.Second, cfg.Redis.DashboardTTL())
	assert.NotEmpty(t, cfg.JWT.Secret, "en development se usa un secret por defecto")
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TAX_RATE", "16")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Business.TaxRate.Equal(decimal.NewFromInt(16)))
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 15*time.Second, cfg.Redis.DashboardTTL())
}

func TestLoad_SinSecretEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_TaxRateInvalido(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TAX_RATE", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss:word", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%3Aword@db:5432/tienda?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
