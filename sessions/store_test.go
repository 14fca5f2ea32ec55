package sessions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/clinic-console/sessions"
	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/token"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/stretchr/testify/require"
)

var doctor = &users.User{ID: "2", Email: "doctor@clinic.com", FirstName: "John", LastName: "Smith", Role: users.RoleDoctor, IsActive: true}

func setupStore(t *testing.T) (*sessions.Store, *fakesessionrepo.FakeSessionRepo) {
	t.Helper()
	repo := fakesessionrepo.NewFakeSessionRepo()
	store, err := sessions.Open(context.Background(), repo)
	require.NoError(t, err)
	return store, repo
}

func signedToken(t *testing.T, issuedAt time.Time, ttl time.Duration) string {
	t.Helper()
	original := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return issuedAt }
	defer func() { token.NowTimeFunc = original }()

	signer, err := token.NewHMACSigner("dev-secret")
	require.NoError(t, err)
	raw, err := token.NewIssuer(signer, ttl).Issue(doctor)
	require.NoError(t, err)
	return raw
}

func TestOpenEmpty(t *testing.T) {
	store, _ := setupStore(t)

	s := store.Snapshot()
	require.False(t, s.IsAuthenticated)
	require.Nil(t, s.User)
	require.Empty(t, s.Token)
	require.Nil(t, store.BearerToken())
}

func TestSetCredentialsPersistsAcrossReopen(t *testing.T) {
	store, repo := setupStore(t)
	store.SetCredentials(&users.User{ID: "2", Role: users.RoleDoctor, Token: "t1"}, "t1")

	require.True(t, store.IsAuthenticated())
	require.Equal(t, "t1", store.Token())
	require.Equal(t, users.RoleDoctor, store.Role())
	require.Empty(t, store.User().Token)

	values := repo.Values()
	require.Equal(t, "t1", values[sessions.TokenKey])
	var stored users.User
	require.NoError(t, json.Unmarshal([]byte(values[sessions.UserKey]), &stored))
	require.Equal(t, "2", stored.ID)
	require.Empty(t, stored.Token)

	reopened, err := sessions.Open(context.Background(), repo)
	require.NoError(t, err)
	require.True(t, reopened.IsAuthenticated())
	require.Equal(t, "t1", reopened.Token())
	require.Equal(t, users.RoleDoctor, reopened.Role())
}

func TestOpenMalformedUserLogsOut(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, sessions.UserKey, "{not json"))
	require.NoError(t, repo.Set(ctx, sessions.TokenKey, "t1"))

	store, err := sessions.Open(ctx, repo)
	require.NoError(t, err)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.Values())
}

func TestOpenTokenWithoutUserLogsOut(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, repo.Set(context.Background(), sessions.TokenKey, "t1"))

	store, err := sessions.Open(context.Background(), repo)
	require.NoError(t, err)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.Values())
}

func TestOpenExpiredTokenLogsOut(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	ctx := context.Background()
	user, _ := json.Marshal(doctor)
	require.NoError(t, repo.Set(ctx, sessions.UserKey, string(user)))
	require.NoError(t, repo.Set(ctx, sessions.TokenKey, signedToken(t, time.Now().Add(-2*time.Hour), time.Hour)))

	store, err := sessions.Open(ctx, repo)
	require.NoError(t, err)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.Values())
}

func TestOpenStorageFailure(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	repo.Failing = true

	_, err := sessions.Open(context.Background(), repo)
	require.Error(t, err)
}

func TestUpdateUserKeepsToken(t *testing.T) {
	store, _ := setupStore(t)
	store.SetCredentials(&users.User{ID: "2"}, "t1")

	store.UpdateUser(doctor)
	require.Equal(t, "t1", store.Token())
	require.Equal(t, users.RoleDoctor, store.Role())
	require.Equal(t, "John Smith", store.User().FullName())
}

func TestLogoutIsIdempotent(t *testing.T) {
	store, repo := setupStore(t)
	store.SetCredentials(doctor, "t1")

	store.Logout()
	first := store.Snapshot()
	store.Logout()
	second := store.Snapshot()

	require.Equal(t, first, second)
	require.False(t, second.IsAuthenticated)
	require.Empty(t, repo.Values())
}

func TestStorageFailureKeepsMemoryState(t *testing.T) {
	store, repo := setupStore(t)
	repo.Failing = true

	store.SetCredentials(doctor, "t1")
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "t1", store.Token())
}

func TestSubscribe(t *testing.T) {
	store, _ := setupStore(t)

	var seen []sessions.Session
	unsubscribe := store.Subscribe(func(s sessions.Session) {
		// Listeners run outside the lock and may read the store.
		require.Equal(t, s.IsAuthenticated, store.IsAuthenticated())
		seen = append(seen, s)
	})

	store.SetCredentials(doctor, "t1")
	store.Logout()
	unsubscribe()
	store.SetCredentials(doctor, "t2")

	require.Len(t, seen, 2)
	require.True(t, seen[0].IsAuthenticated)
	require.Equal(t, "t1", seen[0].Token)
	require.False(t, seen[1].IsAuthenticated)
}

func TestBearerToken(t *testing.T) {
	store, _ := setupStore(t)
	issued := time.Now().Truncate(time.Second)
	raw := signedToken(t, issued, time.Hour)
	store.SetCredentials(doctor, raw)

	tok := store.BearerToken()
	require.NotNil(t, tok)
	require.Equal(t, issued.Add(time.Hour).Unix(), tok.Expiry.Unix())

	req, err := http.NewRequest(http.MethodGet, "http://localhost/api/patients", nil)
	require.NoError(t, err)
	tok.SetAuthHeader(req)
	require.Equal(t, "Bearer "+raw, req.Header.Get("Authorization"))

	store.SetCredentials(doctor, "t1")
	require.True(t, store.BearerToken().Expiry.IsZero())
}
