package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/clinic-console/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.FromViper(viper.New())

	require.Equal(t, "Clinic Console", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "http://localhost:5000", c.GetBaseURL())
	require.Equal(t, 10*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.SessionBackendFile, c.GetSessionBackend())
	require.Equal(t, ":5000", c.GetMockPort())
	require.Equal(t, 8*time.Hour, c.GetMockTokenExpiry())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3000"))
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("API_BASE_URL", "https://clinic.example.com/")
	v.Set("API_TIMEOUT", "3s")
	v.Set("SESSION_BACKEND", "REDIS")
	v.Set("MOCK_PORT", ":9090")
	v.Set("ENV", "prod")
	c := config.FromViper(v)

	require.Equal(t, "https://clinic.example.com", c.GetBaseURL())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.SessionBackendRedis, c.GetSessionBackend())
	require.Equal(t, ":9090", c.GetMockPort())
	require.Equal(t, "PROD", c.GetEnv())
}

func TestUnknownSessionBackendFallsBackToFile(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_BACKEND", "cookie-jar")
	c := config.FromViper(v)

	require.Equal(t, config.SessionBackendFile, c.GetSessionBackend())
}

func TestEnvironmentIsRead(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_KEY_PREFIX", "ward-7")
	c := config.New()

	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "ward-7", c.GetSessionKeyPrefix())
}
