package config

import (
	"strings"

	"github.com/spf13/viper"
)

// SessionBackend selects where the session survives restarts.
type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendFile   SessionBackend = "file"
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendSQLite SessionBackend = "sqlite"
)

func (b SessionBackend) Valid() bool {
	switch b {
	case SessionBackendMemory, SessionBackendFile, SessionBackendRedis, SessionBackendSQLite:
		return true
	}
	return false
}

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

// GetSessionBackend falls back to the file backend for unknown values.
func (s Session) GetSessionBackend() SessionBackend {
	b := SessionBackend(strings.ToLower(s.v.GetString(sessionBackendVar)))
	if !b.Valid() {
		return SessionBackendFile
	}
	return b
}

func (s Session) GetSessionPath() string {
	return s.v.GetString(sessionPathVar)
}

func (s Session) GetSessionSQLitePath() string {
	return s.v.GetString(sessionSQLiteVar)
}

func (s Session) GetRedisURL() string {
	return s.v.GetString(redisURLVar)
}

func (s Session) GetSessionKeyPrefix() string {
	return s.v.GetString(sessionKeyPrefixVar)
}
