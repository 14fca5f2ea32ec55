package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appNameVar          = "APP_NAME"
	envVar              = "ENV"
	logLevelVar         = "LOG_LEVEL"
	baseURLVar          = "API_BASE_URL"
	timeoutVar          = "API_TIMEOUT"
	sessionBackendVar   = "SESSION_BACKEND"
	sessionPathVar      = "SESSION_PATH"
	sessionSQLiteVar    = "SESSION_SQLITE_PATH"
	redisURLVar         = "REDIS_URL"
	sessionKeyPrefixVar = "SESSION_KEY_PREFIX"
	mockPortVar         = "MOCK_PORT"
	mockSecretVar       = "MOCK_SIGNING_SECRET"
	mockTokenExpiryVar  = "MOCK_TOKEN_EXPIRY"
	allowedOriginsVar   = "CORS_ORIGINS"
	configFileVar       = "CONFIG_FILE"
)

var boundKeys = []string{
	appNameVar, envVar, logLevelVar, baseURLVar, timeoutVar,
	sessionBackendVar, sessionPathVar, sessionSQLiteVar, redisURLVar, sessionKeyPrefixVar,
	mockPortVar, mockSecretVar, mockTokenExpiryVar, allowedOriginsVar, configFileVar,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(appNameVar, "Clinic Console")
	v.SetDefault(envVar, "DEV")
	v.SetDefault(logLevelVar, "info")
	v.SetDefault(baseURLVar, "http://localhost:5000")
	v.SetDefault(timeoutVar, "10s")
	v.SetDefault(sessionBackendVar, string(SessionBackendFile))
	v.SetDefault(sessionPathVar, "./data/session.json")
	v.SetDefault(sessionSQLiteVar, "./data/session.db")
	v.SetDefault(redisURLVar, "redis://localhost:6379/0")
	v.SetDefault(sessionKeyPrefixVar, "clinic-console")
	v.SetDefault(mockPortVar, "5000")
	v.SetDefault(mockSecretVar, "dev-secret")
	v.SetDefault(mockTokenExpiryVar, "8h")
	v.SetDefault(allowedOriginsVar, "http://localhost:3000,http://localhost:8080")
}

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameVar)
}

func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(e.v.GetString(envVar))
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.v.GetString(logLevelVar))
}

type API struct {
	v *viper.Viper
}

var _ APIConfig = API{}

// GetBaseURL returns the backend base URL without a trailing slash (e.g., "http://localhost:5000")
func (a API) GetBaseURL() string {
	return strings.TrimRight(a.v.GetString(baseURLVar), "/")
}

func (a API) GetRequestTimeout() time.Duration {
	d := a.v.GetDuration(timeoutVar)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

type MockServer struct {
	v *viper.Viper
}

var _ MockServerConfig = MockServer{}

func (m MockServer) GetMockPort() string {
	port := m.v.GetString(mockPortVar)
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (m MockServer) GetMockSigningSecret() string {
	return m.v.GetString(mockSecretVar)
}

func (m MockServer) GetMockTokenExpiry() time.Duration {
	d := m.v.GetDuration(mockTokenExpiryVar)
	if d <= 0 {
		return 8 * time.Hour
	}
	return d
}
