package filerepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/jrsteele09/clinic-console/sessions/filerepo"
	"github.com/jrsteele09/clinic-console/sessions/sessiontest"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T, path string) *filerepo.FileRepo {
	t.Helper()
	repo, err := filerepo.New(path)
	require.NoError(t, err)
	return repo
}

func TestFileRepoContract(t *testing.T) {
	sessiontest.RunRepoContract(t, setupRepo(t, filepath.Join(t.TempDir(), "nested", "session.json")))
}

func TestFileRepoSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	sessiontest.RunSurvivesReopen(t, setupRepo(t, path), func() sessions.Repo { return setupRepo(t, path) })
}

func TestFileRepoRemovesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	repo := setupRepo(t, path)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, sessions.TokenKey, "t1"))
	require.FileExists(t, path)

	require.NoError(t, repo.Remove(ctx, sessions.TokenKey))
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileRepoCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	repo := setupRepo(t, path)
	ctx := context.Background()

	_, _, err := repo.Get(ctx, sessions.UserKey)
	require.Error(t, err)

	require.NoError(t, repo.Set(ctx, sessions.TokenKey, "t1"))
	v, ok, err := repo.Get(ctx, sessions.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)
}
