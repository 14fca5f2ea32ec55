package dispatcher_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/clinic-console/cache"
	"github.com/jrsteele09/clinic-console/dispatcher"
	"github.com/jrsteele09/clinic-console/guard"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/internal/metrics"
	"github.com/jrsteele09/clinic-console/sessions"
	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var (
	listPatients = dispatcher.Query{
		Name:     "getPatients",
		Path:     "/api/patients",
		Defaults: dispatcher.Params{"page": "1", "limit": "10"},
		Provides: []dispatcher.TagSpec{dispatcher.Type(cache.TagPatient)},
	}
	getPatient = dispatcher.Query{
		Name:     "getPatientById",
		Path:     "/api/patients/{id}",
		Provides: []dispatcher.TagSpec{dispatcher.ByParam(cache.TagPatient, "id")},
	}
	recordsByPatient = dispatcher.Query{
		Name: "getMedicalRecordsByPatient",
		Path: "/api/medical-records/patient/{patientId}",
		Provides: []dispatcher.TagSpec{
			dispatcher.ByParam(cache.TagMedicalRecord, "patientId"),
			dispatcher.Type(cache.TagMedicalRecord),
		},
	}
	updateStatus = dispatcher.Mutation{
		Name:   "updatePatientStatus",
		Method: http.MethodPatch,
		Path:   "/api/patients/{id}/status",
		Invalidates: []dispatcher.TagSpec{
			dispatcher.ByParam(cache.TagPatient, "id"),
			dispatcher.Type(cache.TagPatient),
		},
	}
	updatePatient = dispatcher.Mutation{
		Name:        "updatePatient",
		Method:      http.MethodPut,
		Path:        "/api/patients/{id}",
		Invalidates: []dispatcher.TagSpec{dispatcher.ByParam(cache.TagPatient, "id")},
	}
	createRecord = dispatcher.Mutation{
		Name:        "createMedicalRecord",
		Method:      http.MethodPost,
		Path:        "/api/medical-records",
		Invalidates: []dispatcher.TagSpec{dispatcher.ByField(cache.TagMedicalRecord, "patientId")},
	}
	login = dispatcher.Mutation{
		Name:        "login",
		Method:      http.MethodPost,
		Path:        "/api/users/login",
		Invalidates: []dispatcher.TagSpec{dispatcher.Type(cache.TagUser)},
		Public:      true,
	}
)

// backend routes by path and counts requests per path.
type backend struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
	srv      *httptest.Server
}

func setupBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, handlers: map[string]http.HandlerFunc{}, hits: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		h, ok := b.handlers[route]
		b.hits[route]++
		b.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[route] = h
}

func (b *backend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func setupDispatcher(t *testing.T, b *backend, opts ...dispatcher.Option) (*dispatcher.Dispatcher, *sessions.Store) {
	t.Helper()
	store, err := sessions.Open(context.Background(), fakesessionrepo.NewFakeSessionRepo())
	require.NoError(t, err)
	store.SetCredentials(&users.User{ID: "2", Role: users.RoleDoctor}, "t1")
	return dispatcher.New(b.srv.URL, store, opts...), store
}

func TestKey(t *testing.T) {
	key, err := listPatients.Key(nil)
	require.NoError(t, err)
	require.Equal(t, "/api/patients?limit=10&page=1", key)

	key, err = listPatients.Key(dispatcher.Params{"page": "2", "search": "doe"})
	require.NoError(t, err)
	require.Equal(t, "/api/patients?limit=10&page=2&search=doe", key)

	key, err = getPatient.Key(dispatcher.Params{"id": "a b"})
	require.NoError(t, err)
	require.Equal(t, "/api/patients/a%20b", key)

	_, err = getPatient.Key(nil)
	require.ErrorIs(t, err, errors.ErrMissingParam)
}

func TestQuerySendsBearerAndCaches(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get(dispatcher.RequestIDHeader))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, `{"patients":[{"id":"1"}],"total":1}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	res, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, cache.StatusReady, res.Status)

	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, res.Decode(&body))
	require.Equal(t, 1, body.Total)

	res, err = d.Query(ctx, listPatients, dispatcher.Params{"page": "1"})
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Equal(t, 1, b.count("GET /api/patients"))
}

func TestConcurrentQueriesShareOneRequest(t *testing.T) {
	b := setupBackend(t)
	started := make(chan struct{}, 10)
	release := make(chan struct{})
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	d, _ := setupDispatcher(t, b)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]dispatcher.Result, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.Query(context.Background(), listPatients, nil)
		}(i)
	}

	<-started
	require.True(t, d.Pending(listPatients, nil))
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, 1, b.count("GET /api/patients"))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.JSONEq(t, `{"patients":[]}`, string(results[i].Data))
	}
}

func TestMutationInvalidatesTypeTag(t *testing.T) {
	b := setupBackend(t)
	var version atomic.Int32
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"version":%d}`, version.Load()))
	})
	b.handle("PATCH /api/patients/1/status", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "inactive", req["status"])
		version.Add(1)
		writeJSON(w, http.StatusOK, `{"id":"1","status":"inactive"}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)

	_, err = d.Mutate(ctx, updateStatus, dispatcher.Params{"id": "1"}, map[string]string{"status": "inactive"})
	require.NoError(t, err)

	cached, ok := d.Lookup(listPatients, nil)
	require.True(t, ok)
	require.Equal(t, cache.StatusStale, cached.Status)
	require.JSONEq(t, `{"version":0}`, string(cached.Data))

	res, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.JSONEq(t, `{"version":1}`, string(res.Data))
	require.Equal(t, 2, b.count("GET /api/patients"))
}

func TestIDInvalidationLeavesOtherEntities(t *testing.T) {
	b := setupBackend(t)
	for _, id := range []string{"1", "2"} {
		id := id
		b.handle("GET /api/patients/"+id, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"id":"`+id+`"}`)
		})
	}
	b.handle("PUT /api/patients/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"1"}`)
	})
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		_, err := d.Query(ctx, getPatient, dispatcher.Params{"id": id})
		require.NoError(t, err)
	}
	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)

	_, err = d.Mutate(ctx, updatePatient, dispatcher.Params{"id": "1"}, map[string]string{"firstName": "Janet"})
	require.NoError(t, err)

	one, _ := d.Lookup(getPatient, dispatcher.Params{"id": "1"})
	two, _ := d.Lookup(getPatient, dispatcher.Params{"id": "2"})
	list, _ := d.Lookup(listPatients, nil)
	require.Equal(t, cache.StatusStale, one.Status)
	require.Equal(t, cache.StatusReady, two.Status)
	require.Equal(t, cache.StatusReady, list.Status)
}

func TestInvalidationFromResponseField(t *testing.T) {
	b := setupBackend(t)
	for _, id := range []string{"7", "8"} {
		b.handle("GET /api/medical-records/patient/"+id, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[]`)
		})
	}
	b.handle("POST /api/medical-records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":"m1","patientId":"7"}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	for _, id := range []string{"7", "8"} {
		_, err := d.Query(ctx, recordsByPatient, dispatcher.Params{"patientId": id})
		require.NoError(t, err)
	}

	resp, err := d.Mutate(ctx, createRecord, nil, map[string]string{"patientId": "7"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"m1","patientId":"7"}`, string(resp))

	seven, _ := d.Lookup(recordsByPatient, dispatcher.Params{"patientId": "7"})
	eight, _ := d.Lookup(recordsByPatient, dispatcher.Params{"patientId": "8"})
	require.Equal(t, cache.StatusStale, seven.Status)
	require.Equal(t, cache.StatusReady, eight.Status)
}

func TestLateResponseDoesNotOverwriteNewer(t *testing.T) {
	b := setupBackend(t)
	var calls atomic.Int32
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			writeJSON(w, http.StatusOK, `"old"`)
			return
		}
		writeJSON(w, http.StatusOK, `"new"`)
	})
	reg := prometheus.NewRegistry()
	d, _ := setupDispatcher(t, b, dispatcher.WithMetrics(metrics.NewDispatcherMetrics(reg)))
	ctx := context.Background()

	firstDone := make(chan dispatcher.Result, 1)
	go func() {
		res, err := d.Refetch(ctx, listPatients, nil)
		require.NoError(t, err)
		firstDone <- res
	}()
	<-firstStarted

	res, err := d.Refetch(ctx, listPatients, nil)
	require.NoError(t, err)
	require.JSONEq(t, `"new"`, string(res.Data))

	close(releaseFirst)
	first := <-firstDone
	require.JSONEq(t, `"new"`, string(first.Data))

	cached, ok := d.Lookup(listPatients, nil)
	require.True(t, ok)
	require.Equal(t, cache.StatusReady, cached.Status)
	require.JSONEq(t, `"new"`, string(cached.Data))

	count, err := testutil.GatherAndCount(reg, "clinic_console_cache_discarded_responses_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestUnauthorizedLogsOutAndClearsCache(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	b.handle("GET /api/patients/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Token expired"}`)
	})
	d, store := setupDispatcher(t, b)
	ctx := context.Background()

	var redirects []dispatcher.Redirect
	d.OnRedirect(func(r dispatcher.Redirect) { redirects = append(redirects, r) })

	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)
	require.Equal(t, 1, d.Cache().Len())

	_, err = d.Query(ctx, getPatient, dispatcher.Params{"id": "1"})
	require.ErrorIs(t, err, errors.ErrUnauthenticated)

	var apiErr *dispatcher.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, dispatcher.KindAuthentication, apiErr.Kind)
	require.Equal(t, "Token expired", apiErr.Message)
	require.Equal(t, guard.RouteLogin, apiErr.Redirect)

	require.False(t, store.IsAuthenticated())
	require.Zero(t, d.Cache().Len())
	require.Len(t, redirects, 1)
	require.Equal(t, guard.OutcomeRedirectLogin, redirects[0].Outcome)
}

func TestForbiddenKeepsSession(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	b.handle("POST /api/stats/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message":"Admin only"}`)
	})
	d, store := setupDispatcher(t, b)
	ctx := context.Background()

	var redirects []dispatcher.Redirect
	d.OnRedirect(func(r dispatcher.Redirect) { redirects = append(redirects, r) })

	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)

	generate := dispatcher.Mutation{Name: "generateStats", Method: http.MethodPost, Path: "/api/stats/generate",
		Invalidates: []dispatcher.TagSpec{dispatcher.Type(cache.TagStats)}}
	_, err = d.Mutate(ctx, generate, nil, nil)
	require.ErrorIs(t, err, errors.ErrForbidden)

	require.True(t, store.IsAuthenticated())
	require.Equal(t, 1, d.Cache().Len())
	require.Len(t, redirects, 1)
	require.Equal(t, guard.RouteUnauthorized, redirects[0].Location)
}

func TestPublicMutationUnauthorizedKeepsSession(t *testing.T) {
	b := setupBackend(t)
	b.handle("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	})
	d, store := setupDispatcher(t, b)

	var redirected bool
	d.OnRedirect(func(dispatcher.Redirect) { redirected = true })

	_, err := d.Mutate(context.Background(), login, nil, map[string]string{"email": "a@b.c", "password": "x"})
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.True(t, store.IsAuthenticated())
	require.False(t, redirected)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	b := setupBackend(t)
	b.handle("POST /api/medical-records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"Validation failed","errors":{"diagnosis":"is required"}}`)
	})
	b.handle("GET /api/medical-records/patient/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	_, err := d.Query(ctx, recordsByPatient, dispatcher.Params{"patientId": "7"})
	require.NoError(t, err)

	_, err = d.Mutate(ctx, createRecord, nil, map[string]string{"patientId": "7"})
	require.ErrorIs(t, err, errors.ErrValidation)

	var apiErr *dispatcher.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, map[string]string{"diagnosis": "is required"}, apiErr.Fields)

	// A failed write invalidates nothing.
	cached, _ := d.Lookup(recordsByPatient, dispatcher.Params{"patientId": "7"})
	require.Equal(t, cache.StatusReady, cached.Status)
}

func TestNetworkErrorRetainsPreviousData(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[{"id":"1"}]}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)

	b.srv.Close()
	res, err := d.Refetch(ctx, listPatients, nil)
	require.ErrorIs(t, err, errors.ErrNetwork)
	require.Equal(t, cache.StatusError, res.Status)
	require.JSONEq(t, `{"patients":[{"id":"1"}]}`, string(res.Data))
}

func TestServerErrorsAndUndecodableBodies(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `oops`)
	})
	b.handle("GET /api/patients/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	_, err := d.Query(ctx, listPatients, nil)
	require.ErrorIs(t, err, errors.ErrServer)
	var apiErr *dispatcher.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "internal server error", apiErr.Message)

	_, err = d.Query(ctx, getPatient, dispatcher.Params{"id": "1"})
	require.ErrorIs(t, err, errors.ErrDecode)
}

func TestAbandonedQueryStillFillsCache(t *testing.T) {
	b := setupBackend(t)
	started := make(chan struct{})
	release := make(chan struct{})
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	d, _ := setupDispatcher(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := d.Query(ctx, listPatients, nil)
		done <- err
	}()
	<-started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		res, ok := d.Lookup(listPatients, nil)
		return ok && res.Status == cache.StatusReady
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLogoutClearsCache(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	d, store := setupDispatcher(t, b)

	_, err := d.Query(context.Background(), listPatients, nil)
	require.NoError(t, err)
	require.Equal(t, 1, d.Cache().Len())

	store.Logout()
	require.Zero(t, d.Cache().Len())
}

func TestSubscriptionRefetchesOnInvalidation(t *testing.T) {
	b := setupBackend(t)
	var version atomic.Int32
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"version":%d}`, version.Load()))
	})
	b.handle("PATCH /api/patients/1/status", func(w http.ResponseWriter, r *http.Request) {
		version.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	})
	d, _ := setupDispatcher(t, b)
	ctx := context.Background()

	updates := make(chan string, 10)
	unsubscribe, err := d.Subscribe(ctx, listPatients, nil, func(res dispatcher.Result, err error) {
		require.NoError(t, err)
		updates <- string(res.Data)
	})
	require.NoError(t, err)

	require.JSONEq(t, `{"version":0}`, <-updates)

	_, err = d.Mutate(ctx, updateStatus, dispatcher.Params{"id": "1"}, map[string]string{"status": "inactive"})
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1}`, <-updates)

	unsubscribe()
	_, err = d.Mutate(ctx, updateStatus, dispatcher.Params{"id": "1"}, map[string]string{"status": "active"})
	require.NoError(t, err)

	select {
	case u := <-updates:
		t.Fatalf("unexpected update after unsubscribe: %s", u)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriptionStopsWithContext(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	b.handle("PATCH /api/patients/1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	d, _ := setupDispatcher(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	_, err := d.Subscribe(ctx, listPatients, nil, func(dispatcher.Result, error) { calls.Add(1) })
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	_, err = d.Mutate(context.Background(), updateStatus, dispatcher.Params{"id": "1"}, nil)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestLoggedOutQueryIsDroppedOnLogout(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	d, store := setupDispatcher(t, b)
	ctx := context.Background()
	store.Logout()

	_, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)
	require.Equal(t, 1, d.Cache().Len())

	store.Logout()
	require.Zero(t, d.Cache().Len())

	res, err := d.Query(ctx, listPatients, nil)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, 2, b.count("GET /api/patients"))
}

func TestLateUnauthorizedForReplacedTokenKeepsSession(t *testing.T) {
	b := setupBackend(t)
	started := make(chan struct{})
	release := make(chan struct{})
	b.handle("GET /api/patients/1", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		writeJSON(w, http.StatusUnauthorized, `{"message":"Token expired"}`)
	})
	d, store := setupDispatcher(t, b)

	var mu sync.Mutex
	var redirects []dispatcher.Redirect
	d.OnRedirect(func(r dispatcher.Redirect) {
		mu.Lock()
		defer mu.Unlock()
		redirects = append(redirects, r)
	})

	done := make(chan error, 1)
	go func() {
		_, err := d.Query(context.Background(), getPatient, dispatcher.Params{"id": "1"})
		done <- err
	}()
	<-started

	store.SetCredentials(&users.User{ID: "2", Role: users.RoleDoctor}, "t2")
	close(release)

	err := <-done
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "t2", store.Token())

	mu.Lock()
	defer mu.Unlock()
	require.Empty(t, redirects)
}

func TestDispatchersShareInjectedCache(t *testing.T) {
	b := setupBackend(t)
	b.handle("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"patients":[]}`)
	})
	shared := cache.New()
	first, store := setupDispatcher(t, b, dispatcher.WithCache(shared))
	second := dispatcher.New(b.srv.URL, store, dispatcher.WithCache(shared))
	require.Same(t, shared, first.Cache())

	_, err := first.Query(context.Background(), listPatients, nil)
	require.NoError(t, err)

	res, err := second.Query(context.Background(), listPatients, nil)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Equal(t, 1, b.count("GET /api/patients"))
}
