package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "foodcourt.db", cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 50, cfg.RateLimit)
}

func TestLoadRejectsMySQLWithoutDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5, cfg.RateLimit)
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", DatabaseDSN: "file::memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
