package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/clinic-console/clinicapi"
	"github.com/jrsteele09/clinic-console/fakeapi"
	"github.com/jrsteele09/clinic-console/internal/config"
	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/jrsteele09/clinic-console/sessions/filerepo"
	"github.com/jrsteele09/clinic-console/sessions/redisrepo"
	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/sessions/sqliterepo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestOpenSessionRepoPerBackend(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		backend string
		want    sessions.Repo
	}{
		{"memory", &fakesessionrepo.FakeSessionRepo{}},
		{"file", &filerepo.FileRepo{}},
		{"sqlite", &sqliterepo.SQLiteRepo{}},
		{"redis", &redisrepo.RedisRepo{}},
		{"unknown", &filerepo.FileRepo{}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			v := viper.New()
			v.Set("SESSION_BACKEND", tt.backend)
			v.Set("SESSION_PATH", filepath.Join(dir, tt.backend, "session.json"))
			v.Set("SESSION_SQLITE_PATH", filepath.Join(dir, "session.db"))
			v.Set("REDIS_URL", "redis://"+mr.Addr()+"/0")

			repo, closeRepo, err := openSessionRepo(context.Background(), config.FromViper(v))
			require.NoError(t, err)
			defer closeRepo()
			require.IsType(t, tt.want, repo)

			ctx := context.Background()
			require.NoError(t, repo.Set(ctx, sessions.TokenKey, "abc"))
			got, ok, err := repo.Get(ctx, sessions.TokenKey)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "abc", got)
		})
	}
}

func TestOpenSessionRepoRedisUnavailable(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_BACKEND", "redis")
	v.Set("REDIS_URL", "redis://127.0.0.1:1/0")

	_, _, err := openSessionRepo(context.Background(), config.FromViper(v))
	require.Error(t, err)
}

func TestSessionSurvivesConsoleRestart(t *testing.T) {
	v := viper.New()
	v.Set("ENV", "TEST")
	v.Set("SESSION_BACKEND", "file")
	v.Set("SESSION_PATH", filepath.Join(t.TempDir(), "session.json"))

	backend, err := fakeapi.New(config.FromViper(v))
	require.NoError(t, err)
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)
	v.Set("API_BASE_URL", ts.URL)

	previous := cfg
	cfg = config.FromViper(v)
	t.Cleanup(func() { cfg = previous })

	ctx := context.Background()
	first, err := openConsole(ctx)
	require.NoError(t, err)
	_, err = first.Login(ctx, fakeapi.DoctorEmail, fakeapi.DoctorPassword)
	require.NoError(t, err)
	first.close()

	second, err := openConsole(ctx)
	require.NoError(t, err)
	defer second.close()
	require.True(t, second.Session().IsAuthenticated())

	patients, err := second.Patients(ctx, clinicapi.ListOptions{}, "")
	require.NoError(t, err)
	require.Equal(t, 2, patients.Total)

	second.Logout()
	third, err := openConsole(ctx)
	require.NoError(t, err)
	defer third.close()
	require.False(t, third.Session().IsAuthenticated())
}
