// Package clinicapi is the typed surface of the clinic backend: the endpoint
// table and a Client that ties the session, dispatcher and route guard together.
package clinicapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/dispatcher"
	"github.com/jrsteele09/clinic-console/guard"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/rs/zerolog/log"
)

type Client struct {
	session    *sessions.Store
	dispatcher *dispatcher.Dispatcher
	router     *guard.Router
}

// New builds a Client. A nil router uses the default console routes.
func New(session *sessions.Store, d *dispatcher.Dispatcher, router *guard.Router) *Client {
	if router == nil {
		router = guard.NewRouter()
	}
	return &Client{session: session, dispatcher: d, router: router}
}

func (c *Client) Session() *sessions.Store {
	return c.session
}

func (c *Client) Dispatcher() *dispatcher.Dispatcher {
	return c.dispatcher
}

// ListOptions selects a page of a list endpoint. Zero values use the backend defaults.
type ListOptions struct {
	Page  int
	Limit int
}

func (o ListOptions) params(extra ...string) dispatcher.Params {
	p := dispatcher.Params{}
	if o.Page > 0 {
		p["page"] = strconv.Itoa(o.Page)
	}
	if o.Limit > 0 {
		p["limit"] = strconv.Itoa(o.Limit)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if extra[i+1] != "" {
			p[extra[i]] = extra[i+1]
		}
	}
	return p
}

func query[T any](ctx context.Context, c *Client, q dispatcher.Query, params dispatcher.Params) (T, error) {
	var out T
	res, err := c.dispatcher.Query(ctx, q, params)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, fmt.Errorf("%s: %w", q.Name, err)
	}
	return out, nil
}

func mutate[T any](ctx context.Context, c *Client, m dispatcher.Mutation, params dispatcher.Params, body any) (T, error) {
	var out T
	resp, err := c.dispatcher.Mutate(ctx, m, params, body)
	if err != nil {
		return out, err
	}
	if err := (dispatcher.Result{Key: m.Name, Data: resp}).Decode(&out); err != nil {
		return out, fmt.Errorf("%s: %w", m.Name, err)
	}
	return out, nil
}

func id(name, value string) dispatcher.Params {
	return dispatcher.Params{name: value}
}

// Login exchanges credentials for a token and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*users.User, error) {
	user, err := mutate[users.User](ctx, c, Login, nil, clinicmodel.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if user.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", errors.ErrInvalidToken)
	}
	c.session.SetCredentials(&user, user.Token)
	log.Info().Str("user", user.ID).Str("role", string(user.Role)).Msg("logged in")
	return user.Clone(), nil
}

// Logout clears the session, which also drops every cached read.
func (c *Client) Logout() {
	c.session.Logout()
}

// Profile fetches the current user and refreshes the stored session user.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	user, err := query[users.User](ctx, c, GetUserProfile, nil)
	if err != nil {
		return nil, err
	}
	c.session.UpdateUser(&user)
	return &user, nil
}

// Navigate decides whether the current session may enter path.
func (c *Client) Navigate(path string) (guard.Decision, guard.Match) {
	s := c.session.Snapshot()
	return c.router.Decide(path, guard.State{
		IsAuthenticated: s.IsAuthenticated,
		Role:            s.Role(),
		ProfilePending:  c.dispatcher.Pending(GetUserProfile, nil),
	})
}

// Users

func (c *Client) RegisterUser(ctx context.Context, req clinicmodel.RegisterUserRequest) (users.User, error) {
	return mutate[users.User](ctx, c, RegisterUser, nil, req)
}

func (c *Client) Users(ctx context.Context, opts ListOptions, role users.RoleType) (clinicmodel.UsersResponse, error) {
	return query[clinicmodel.UsersResponse](ctx, c, GetUsers, opts.params("role", string(role)))
}

func (c *Client) Doctors(ctx context.Context) ([]users.User, error) {
	return query[[]users.User](ctx, c, GetDoctors, nil)
}

func (c *Client) User(ctx context.Context, userID string) (users.User, error) {
	return query[users.User](ctx, c, GetUserByID, id("id", userID))
}

func (c *Client) UpdateUser(ctx context.Context, userID string, req clinicmodel.UpdateUserRequest) (users.User, error) {
	return mutate[users.User](ctx, c, UpdateUser, id("id", userID), req)
}

func (c *Client) UpdatePassword(ctx context.Context, userID string, req clinicmodel.UpdatePasswordRequest) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, UpdatePassword, id("id", userID), req)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeleteUser, id("id", userID), nil)
}

// Patients

func (c *Client) Patients(ctx context.Context, opts ListOptions, status clinicmodel.PatientStatus) (clinicmodel.PatientsResponse, error) {
	return query[clinicmodel.PatientsResponse](ctx, c, GetPatients, opts.params("status", string(status)))
}

func (c *Client) SearchPatients(ctx context.Context, q string, opts ListOptions) (clinicmodel.PatientsResponse, error) {
	return query[clinicmodel.PatientsResponse](ctx, c, SearchPatients, opts.params("q", q))
}

func (c *Client) Patient(ctx context.Context, patientID string) (clinicmodel.Patient, error) {
	return query[clinicmodel.Patient](ctx, c, GetPatientByID, id("id", patientID))
}

func (c *Client) CreatePatient(ctx context.Context, req clinicmodel.CreatePatientRequest) (clinicmodel.Patient, error) {
	return mutate[clinicmodel.Patient](ctx, c, CreatePatient, nil, req)
}

func (c *Client) UpdatePatient(ctx context.Context, patientID string, req clinicmodel.CreatePatientRequest) (clinicmodel.Patient, error) {
	return mutate[clinicmodel.Patient](ctx, c, UpdatePatient, id("id", patientID), req)
}

func (c *Client) UpdatePatientStatus(ctx context.Context, patientID string, status clinicmodel.PatientStatus) (clinicmodel.Patient, error) {
	return mutate[clinicmodel.Patient](ctx, c, UpdatePatientStatus, id("id", patientID), clinicmodel.UpdatePatientStatusRequest{Status: status})
}

func (c *Client) DeletePatient(ctx context.Context, patientID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeletePatient, id("id", patientID), nil)
}

// Medical records

func (c *Client) MedicalRecordsByPatient(ctx context.Context, patientID string) ([]clinicmodel.MedicalRecord, error) {
	return query[[]clinicmodel.MedicalRecord](ctx, c, GetMedicalRecordByPatientID, id("patientId", patientID))
}

func (c *Client) MedicalRecord(ctx context.Context, recordID string) (clinicmodel.MedicalRecord, error) {
	return query[clinicmodel.MedicalRecord](ctx, c, GetMedicalRecordByID, id("id", recordID))
}

func (c *Client) CreateMedicalRecord(ctx context.Context, req clinicmodel.CreateMedicalRecordRequest) (clinicmodel.MedicalRecord, error) {
	return mutate[clinicmodel.MedicalRecord](ctx, c, CreateMedicalRecord, nil, req)
}

func (c *Client) UpdateMedicalRecord(ctx context.Context, recordID string, req clinicmodel.CreateMedicalRecordRequest) (clinicmodel.MedicalRecord, error) {
	return mutate[clinicmodel.MedicalRecord](ctx, c, UpdateMedicalRecord, id("id", recordID), req)
}

func (c *Client) DeleteMedicalRecord(ctx context.Context, recordID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeleteMedicalRecord, id("id", recordID), nil)
}

// Diagnoses

func (c *Client) DiagnosesByPatient(ctx context.Context, patientID string, opts ListOptions) (clinicmodel.DiagnosesResponse, error) {
	return query[clinicmodel.DiagnosesResponse](ctx, c, GetDiagnosesByPatientID, opts.params("patientId", patientID))
}

func (c *Client) Diagnosis(ctx context.Context, diagnosisID string) (clinicmodel.Diagnosis, error) {
	return query[clinicmodel.Diagnosis](ctx, c, GetDiagnosisByID, id("id", diagnosisID))
}

func (c *Client) CreateDiagnosis(ctx context.Context, req clinicmodel.CreateDiagnosisRequest) (clinicmodel.Diagnosis, error) {
	return mutate[clinicmodel.Diagnosis](ctx, c, CreateDiagnosis, nil, req)
}

func (c *Client) UpdateDiagnosis(ctx context.Context, diagnosisID string, req clinicmodel.CreateDiagnosisRequest) (clinicmodel.Diagnosis, error) {
	return mutate[clinicmodel.Diagnosis](ctx, c, UpdateDiagnosis, id("id", diagnosisID), req)
}

func (c *Client) DeleteDiagnosis(ctx context.Context, diagnosisID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeleteDiagnosis, id("id", diagnosisID), nil)
}

// Appointments

func (c *Client) Appointments(ctx context.Context, opts ListOptions, status clinicmodel.AppointmentStatus) (clinicmodel.AppointmentsResponse, error) {
	return query[clinicmodel.AppointmentsResponse](ctx, c, GetAppointments, opts.params("status", string(status)))
}

func (c *Client) AppointmentsByDate(ctx context.Context, date string, opts ListOptions) (clinicmodel.AppointmentsResponse, error) {
	return query[clinicmodel.AppointmentsResponse](ctx, c, GetAppointmentsByDate, opts.params("date", date))
}

func (c *Client) AppointmentsByPatient(ctx context.Context, patientID string, opts ListOptions) (clinicmodel.AppointmentsResponse, error) {
	return query[clinicmodel.AppointmentsResponse](ctx, c, GetAppointmentsByPatientID, opts.params("patientId", patientID))
}

func (c *Client) AppointmentsByDoctor(ctx context.Context, doctorID string, opts ListOptions) (clinicmodel.AppointmentsResponse, error) {
	return query[clinicmodel.AppointmentsResponse](ctx, c, GetAppointmentsByDoctorID, opts.params("doctorId", doctorID))
}

func (c *Client) Appointment(ctx context.Context, appointmentID string) (clinicmodel.Appointment, error) {
	return query[clinicmodel.Appointment](ctx, c, GetAppointmentByID, id("id", appointmentID))
}

func (c *Client) CreateAppointment(ctx context.Context, req clinicmodel.CreateAppointmentRequest) (clinicmodel.Appointment, error) {
	return mutate[clinicmodel.Appointment](ctx, c, CreateAppointment, nil, req)
}

func (c *Client) UpdateAppointment(ctx context.Context, appointmentID string, req clinicmodel.CreateAppointmentRequest) (clinicmodel.Appointment, error) {
	return mutate[clinicmodel.Appointment](ctx, c, UpdateAppointment, id("id", appointmentID), req)
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status clinicmodel.AppointmentStatus) (clinicmodel.Appointment, error) {
	return mutate[clinicmodel.Appointment](ctx, c, UpdateAppointmentStatus, id("id", appointmentID), clinicmodel.UpdateAppointmentStatusRequest{Status: status})
}

func (c *Client) DeleteAppointment(ctx context.Context, appointmentID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeleteAppointment, id("id", appointmentID), nil)
}

// Prescriptions

func (c *Client) Prescriptions(ctx context.Context, opts ListOptions, status clinicmodel.PrescriptionStatus) (clinicmodel.PrescriptionsResponse, error) {
	return query[clinicmodel.PrescriptionsResponse](ctx, c, GetPrescriptions, opts.params("status", string(status)))
}

func (c *Client) PrescriptionsByPatient(ctx context.Context, patientID string, opts ListOptions) (clinicmodel.PrescriptionsResponse, error) {
	return query[clinicmodel.PrescriptionsResponse](ctx, c, GetPrescriptionsByPatientID, opts.params("patientId", patientID))
}

func (c *Client) Prescription(ctx context.Context, prescriptionID string) (clinicmodel.PrescriptionDetailResponse, error) {
	return query[clinicmodel.PrescriptionDetailResponse](ctx, c, GetPrescriptionByID, id("id", prescriptionID))
}

func (c *Client) CreatePrescription(ctx context.Context, req clinicmodel.CreatePrescriptionRequest) (clinicmodel.PrescriptionDetailResponse, error) {
	return mutate[clinicmodel.PrescriptionDetailResponse](ctx, c, CreatePrescription, nil, req)
}

func (c *Client) UpdatePrescription(ctx context.Context, prescriptionID string, req clinicmodel.CreatePrescriptionRequest) (clinicmodel.Prescription, error) {
	return mutate[clinicmodel.Prescription](ctx, c, UpdatePrescription, id("id", prescriptionID), req)
}

func (c *Client) UpdatePrescriptionStatus(ctx context.Context, prescriptionID string, status clinicmodel.PrescriptionStatus) (clinicmodel.Prescription, error) {
	return mutate[clinicmodel.Prescription](ctx, c, UpdatePrescriptionStatus, id("id", prescriptionID), clinicmodel.UpdatePrescriptionStatusRequest{Status: status})
}

func (c *Client) DeletePrescription(ctx context.Context, prescriptionID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeletePrescription, id("id", prescriptionID), nil)
}

func (c *Client) AddPrescriptionItem(ctx context.Context, prescriptionID string, req clinicmodel.CreatePrescriptionItemRequest) (clinicmodel.PrescriptionItem, error) {
	return mutate[clinicmodel.PrescriptionItem](ctx, c, AddPrescriptionItem, id("prescriptionId", prescriptionID), req)
}

func (c *Client) UpdatePrescriptionItem(ctx context.Context, itemID string, req clinicmodel.CreatePrescriptionItemRequest) (clinicmodel.PrescriptionItem, error) {
	return mutate[clinicmodel.PrescriptionItem](ctx, c, UpdatePrescriptionItem, id("itemId", itemID), req)
}

func (c *Client) DeletePrescriptionItem(ctx context.Context, itemID string) (clinicmodel.MessageResponse, error) {
	return mutate[clinicmodel.MessageResponse](ctx, c, DeletePrescriptionItem, id("itemId", itemID), nil)
}

// Statistics

func (c *Client) LatestStats(ctx context.Context) (clinicmodel.Stats, error) {
	return query[clinicmodel.Stats](ctx, c, GetLatestStats, nil)
}

func (c *Client) GenerateStats(ctx context.Context) (clinicmodel.Stats, error) {
	return mutate[clinicmodel.Stats](ctx, c, GenerateStats, nil, nil)
}

// Activity logs

func (c *Client) ActivityLogs(ctx context.Context, opts ListOptions) (clinicmodel.ActivityLogsResponse, error) {
	return query[clinicmodel.ActivityLogsResponse](ctx, c, GetActivityLogs, opts.params())
}

func (c *Client) ActivityLogsByUser(ctx context.Context, userID string, opts ListOptions) (clinicmodel.ActivityLogsResponse, error) {
	return query[clinicmodel.ActivityLogsResponse](ctx, c, GetActivityLogsByUserID, opts.params("userId", userID))
}

func (c *Client) ActivityLogsByEntity(ctx context.Context, entityType, entityID string, opts ListOptions) (clinicmodel.ActivityLogsResponse, error) {
	return query[clinicmodel.ActivityLogsResponse](ctx, c, GetActivityLogsByEntity, opts.params("entityType", entityType, "entityId", entityID))
}
