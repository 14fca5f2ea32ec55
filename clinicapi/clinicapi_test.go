package clinicapi_test

import (
	"context"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/clinic-console/cache"
	"github.com/jrsteele09/clinic-console/clinicapi"
	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/dispatcher"
	"github.com/jrsteele09/clinic-console/fakeapi"
	"github.com/jrsteele09/clinic-console/guard"
	"github.com/jrsteele09/clinic-console/internal/config"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/sessions"
	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type harness struct {
	client  *clinicapi.Client
	repo    *fakesessionrepo.FakeSessionRepo
	backend *fakeapi.Server

	mu        sync.Mutex
	redirects []dispatcher.Redirect
}

func (h *harness) lastRedirect() (dispatcher.Redirect, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redirects) == 0 {
		return dispatcher.Redirect{}, false
	}
	return h.redirects[len(h.redirects)-1], true
}

func setupClient(t *testing.T) *harness {
	t.Helper()
	v := viper.New()
	v.Set("ENV", "TEST")
	backend, err := fakeapi.New(config.FromViper(v))
	require.NoError(t, err)
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	repo := fakesessionrepo.NewFakeSessionRepo()
	store, err := sessions.Open(context.Background(), repo)
	require.NoError(t, err)

	d := dispatcher.New(ts.URL, store, dispatcher.WithHTTPClient(ts.Client()))
	h := &harness{client: clinicapi.New(store, d, nil), repo: repo, backend: backend}
	d.OnRedirect(func(r dispatcher.Redirect) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.redirects = append(h.redirects, r)
	})
	return h
}

func (h *harness) login(t *testing.T, email, password string) *users.User {
	t.Helper()
	user, err := h.client.Login(context.Background(), email, password)
	require.NoError(t, err)
	return user
}

func TestEveryEndpointDeclaresTags(t *testing.T) {
	names := map[string]bool{}
	for _, q := range clinicapi.Queries() {
		require.NotEmpty(t, q.Provides, q.Name)
		require.False(t, names[q.Name], "duplicate endpoint %s", q.Name)
		names[q.Name] = true
	}
	for _, m := range clinicapi.Mutations() {
		require.NotEmpty(t, m.Invalidates, m.Name)
		require.False(t, names[m.Name], "duplicate endpoint %s", m.Name)
		names[m.Name] = true
	}
}

func TestEndpointTableMatchesBackendRoutes(t *testing.T) {
	h := setupClient(t)
	params := regexp.MustCompile(`\{[^}]+\}`)

	served := map[string]bool{}
	for _, route := range h.backend.Routes() {
		served[params.ReplaceAllString(route, "{}")] = true
	}
	for _, q := range clinicapi.Queries() {
		route := "GET " + params.ReplaceAllString(q.Path, "{}")
		require.True(t, served[route], "%s: %s is not served", q.Name, route)
	}
	for _, m := range clinicapi.Mutations() {
		route := m.Method + " " + params.ReplaceAllString(m.Path, "{}")
		require.True(t, served[route], "%s: %s is not served", m.Name, route)
	}
}

func TestLoginThenFetchUsesBearerAndCache(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()

	_, err := h.client.Patients(ctx, clinicapi.ListOptions{}, "")
	require.ErrorIs(t, err, errors.ErrUnauthenticated)

	user := h.login(t, fakeapi.AdminEmail, fakeapi.AdminPassword)
	require.Equal(t, users.RoleAdmin, user.Role)
	require.Empty(t, user.Token)
	require.True(t, h.client.Session().IsAuthenticated())
	require.NotEmpty(t, h.repo.Values()[sessions.TokenKey])

	patients, err := h.client.Patients(ctx, clinicapi.ListOptions{}, "")
	require.NoError(t, err)
	require.Equal(t, 2, patients.Total)

	res, err := h.client.Dispatcher().Query(ctx, clinicapi.GetPatients, nil)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Equal(t, "/api/patients?limit=10&page=1", res.Key)
}

func TestStatusUpdateInvalidatesPatientList(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()
	h.login(t, fakeapi.NurseEmail, fakeapi.NursePassword)

	_, err := h.client.Patients(ctx, clinicapi.ListOptions{}, "")
	require.NoError(t, err)
	_, err = h.client.Patient(ctx, "2")
	require.NoError(t, err)

	updated, err := h.client.UpdatePatientStatus(ctx, "1", clinicmodel.PatientDischarged)
	require.NoError(t, err)
	require.Equal(t, clinicmodel.PatientDischarged, updated.Status)

	list, ok := h.client.Dispatcher().Lookup(clinicapi.GetPatients, nil)
	require.True(t, ok)
	require.Equal(t, cache.StatusStale, list.Status)

	// The type-level tag reaches every patient read, including other ids.
	other, ok := h.client.Dispatcher().Lookup(clinicapi.GetPatientByID, dispatcher.Params{"id": "2"})
	require.True(t, ok)
	require.Equal(t, cache.StatusStale, other.Status)

	patients, err := h.client.Patients(ctx, clinicapi.ListOptions{}, "")
	require.NoError(t, err)
	require.Equal(t, clinicmodel.PatientDischarged, patients.Patients[0].Status)
}

func TestCreatedRecordRefreshesPatientRecords(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()
	h.login(t, fakeapi.DoctorEmail, fakeapi.DoctorPassword)

	records, err := h.client.MedicalRecordsByPatient(ctx, "2")
	require.NoError(t, err)
	require.Len(t, records, 1)
	unrelated, err := h.client.MedicalRecordsByPatient(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, unrelated)

	_, err = h.client.CreateMedicalRecord(ctx, clinicmodel.CreateMedicalRecordRequest{
		PatientID: "2", DoctorID: "2", Diagnosis: "Hypertension", Symptoms: "Headache", Treatment: "Rest",
	})
	require.NoError(t, err)

	records, err = h.client.MedicalRecordsByPatient(ctx, "2")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestRejectedTokenLogsOut(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()
	user := h.login(t, fakeapi.DoctorEmail, fakeapi.DoctorPassword)

	h.client.Session().SetCredentials(user, "revoked-token")

	_, err := h.client.Patients(ctx, clinicapi.ListOptions{}, "")
	var apiErr *dispatcher.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, dispatcher.KindAuthentication, apiErr.Kind)
	require.Equal(t, guard.RouteLogin, apiErr.Redirect)

	require.False(t, h.client.Session().IsAuthenticated())
	require.Empty(t, h.repo.Values())
	require.Zero(t, h.client.Dispatcher().Cache().Len())

	r, ok := h.lastRedirect()
	require.True(t, ok)
	require.Equal(t, guard.OutcomeRedirectLogin, r.Outcome)
}

func TestForbiddenKeepsSession(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()
	h.login(t, fakeapi.DoctorEmail, fakeapi.DoctorPassword)

	_, err := h.client.Users(ctx, clinicapi.ListOptions{}, "")
	require.ErrorIs(t, err, errors.ErrForbidden)
	require.True(t, h.client.Session().IsAuthenticated())

	r, ok := h.lastRedirect()
	require.True(t, ok)
	require.Equal(t, guard.RouteUnauthorized, r.Location)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	h := setupClient(t)
	h.login(t, fakeapi.NurseEmail, fakeapi.NursePassword)

	_, err := h.client.CreatePatient(context.Background(), clinicmodel.CreatePatientRequest{LastName: "Doe"})
	var apiErr *dispatcher.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, dispatcher.KindValidation, apiErr.Kind)
	require.Contains(t, apiErr.Fields, "firstName")
	require.True(t, h.client.Session().IsAuthenticated())
}

func TestWrongPasswordDoesNotTouchSession(t *testing.T) {
	h := setupClient(t)

	_, err := h.client.Login(context.Background(), fakeapi.AdminEmail, "nope")
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.False(t, h.client.Session().IsAuthenticated())
	_, redirected := h.lastRedirect()
	require.False(t, redirected)
}

func TestNavigate(t *testing.T) {
	h := setupClient(t)

	d, _ := h.client.Navigate("/patients")
	require.Equal(t, guard.OutcomeRedirectLogin, d.Outcome)
	require.Equal(t, "/patients", d.From)

	h.login(t, fakeapi.DoctorEmail, fakeapi.DoctorPassword)

	d, m := h.client.Navigate("/patients/7")
	require.Equal(t, guard.OutcomeAllow, d.Outcome)
	require.Equal(t, "7", m.Params["id"])

	d, _ = h.client.Navigate("/users")
	require.Equal(t, guard.OutcomeRedirectUnauthorized, d.Outcome)

	d, _ = h.client.Navigate("/no-such-page")
	require.Equal(t, guard.OutcomeNotFound, d.Outcome)

	h.client.Logout()
	d, _ = h.client.Navigate("/dashboard")
	require.Equal(t, guard.OutcomeRedirectLogin, d.Outcome)
}

func TestProfileRefreshesSessionUser(t *testing.T) {
	h := setupClient(t)
	ctx := context.Background()
	nurse := h.login(t, fakeapi.NurseEmail, fakeapi.NursePassword)

	_, err := h.client.UpdateUser(ctx, nurse.ID, clinicmodel.UpdateUserRequest{FirstName: "Marion"})
	require.NoError(t, err)

	profile, err := h.client.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Marion", profile.FirstName)
	require.Equal(t, "Marion", h.client.Session().User().FirstName)
}

func TestDashboard(t *testing.T) {
	h := setupClient(t)
	h.login(t, fakeapi.AdminEmail, fakeapi.AdminPassword)

	clinicapi.NowTimeFunc = func() time.Time { return time.Date(2024, time.January, 16, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { clinicapi.NowTimeFunc = time.Now })

	dash, err := h.client.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, dash.Stats.TotalPatients)
	require.Len(t, dash.TodayAppointments.Appointments, 1)
	require.Equal(t, "10:30", dash.TodayAppointments.Appointments[0].AppointmentTime)
	require.Equal(t, 2, dash.RecentPatients.Total)
}

func TestMissingPatientIsNotFound(t *testing.T) {
	h := setupClient(t)
	h.login(t, fakeapi.NurseEmail, fakeapi.NursePassword)

	_, err := h.client.Patient(context.Background(), "999")
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.ErrorIs(t, err, errors.ErrValidation)
	require.True(t, h.client.Session().IsAuthenticated())
}
