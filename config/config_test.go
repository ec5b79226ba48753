package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.LocationTTL)
	assert.False(t, cfg.StrictTransitions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STRICT_TRANSITIONS", "true")
	t.Setenv("RESET_TOKEN_SWEEP", "5m")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenSweep)
}

func TestUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestPostgresNeedsDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}
