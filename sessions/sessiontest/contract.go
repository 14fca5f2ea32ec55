// Package sessiontest holds the behaviour every sessions.Repo backend must share.
package sessiontest

import (
	"context"
	"testing"

	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/stretchr/testify/require"
)

// RunRepoContract exercises a fresh, empty repo.
func RunRepoContract(t *testing.T, repo sessions.Repo) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, sessions.TokenKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set(ctx, sessions.TokenKey, "t1"))
	require.NoError(t, repo.Set(ctx, sessions.UserKey, `{"id":"1"}`))
	require.NoError(t, repo.Set(ctx, sessions.TokenKey, "t2"))

	v, ok, err := repo.Get(ctx, sessions.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t2", v)

	require.NoError(t, repo.Remove(ctx, sessions.TokenKey, "never-set"))
	_, ok, err = repo.Get(ctx, sessions.TokenKey)
	require.NoError(t, err)
	require.False(t, ok)

	v, ok, err = repo.Get(ctx, sessions.UserKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, v)

	require.NoError(t, repo.Remove(ctx, sessions.UserKey))
	require.NoError(t, repo.Remove(ctx))
}

// RunSurvivesReopen checks that values written through one repo are visible
// to a second repo built by reopen over the same storage.
func RunSurvivesReopen(t *testing.T, first sessions.Repo, reopen func() sessions.Repo) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, first.Set(ctx, sessions.TokenKey, "t1"))

	v, ok, err := reopen().Get(ctx, sessions.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)
}
