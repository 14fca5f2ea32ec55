package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	MockServerConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionBackend() SessionBackend
	GetSessionPath() string
	GetSessionSQLitePath() string
	GetRedisURL() string
	GetSessionKeyPrefix() string
}

type MockServerConfig interface {
	GetMockPort() string
	GetMockSigningSecret() string
	GetMockTokenExpiry() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	MockServer
	Cors
}

// New builds the configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment variables win over file values.
func New() Config {
	return FromViper(load())
}

// FromViper wraps an already populated viper instance. Tests use it to inject values.
func FromViper(v *viper.Viper) Config {
	setDefaults(v)
	return mainConfig{
		EnvVars:    EnvVars{v: v},
		API:        API{v: v},
		Session:    Session{v: v},
		MockServer: MockServer{v: v},
		Cors:       Cors{v: v},
	}
}

func load() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}
	if file := v.GetString(configFileVar); file != "" {
		v.SetConfigFile(file)
		// A missing or unreadable file falls back to env + defaults.
		_ = v.ReadInConfig()
	}
	return v
}
