package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "stock.movements", cfg.Redis.Channel)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ENABLED", "true")
	v.Set("DB_PASSWORD", "p@ss/word")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%2Fword")
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "sqlite")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProductionExigeSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v.Set("JWT_SECRET", "s3cr3t")
	_, err = config.FromViper(v)
	assert.NoError(t, err)
}
