package clinicapi

import (
	"net/http"

	"github.com/jrsteele09/clinic-console/cache"
	d "github.com/jrsteele09/clinic-console/dispatcher"
)

var paged = d.Params{"page": "1", "limit": "10"}

// Users
var (
	Login = d.Mutation{
		Name: "login", Method: http.MethodPost, Path: "/api/users/login",
		Invalidates: []d.TagSpec{d.Type(cache.TagUser)},
		Public:      true,
	}
	RegisterUser = d.Mutation{
		Name: "registerUser", Method: http.MethodPost, Path: "/api/users/register",
		Invalidates: []d.TagSpec{d.Type(cache.TagUser)},
	}
	GetUsers = d.Query{
		Name: "getUsers", Path: "/api/users", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagUser)},
	}
	GetDoctors = d.Query{
		Name: "getDoctors", Path: "/api/users/doctors",
		Provides: []d.TagSpec{d.Type(cache.TagUser)},
	}
	GetUserByID = d.Query{
		Name: "getUserById", Path: "/api/users/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagUser, "id")},
	}
	GetUserProfile = d.Query{
		Name: "getUserProfile", Path: "/api/users/profile",
		Provides: []d.TagSpec{d.Type(cache.TagUser)},
	}
	UpdateUser = d.Mutation{
		Name: "updateUser", Method: http.MethodPut, Path: "/api/users/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagUser, "id"), d.Type(cache.TagUser)},
	}
	UpdatePassword = d.Mutation{
		Name: "updatePassword", Method: http.MethodPatch, Path: "/api/users/{id}/password",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagUser, "id")},
	}
	DeleteUser = d.Mutation{
		Name: "deleteUser", Method: http.MethodDelete, Path: "/api/users/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagUser)},
	}
)

// Patients
var (
	GetPatients = d.Query{
		Name: "getPatients", Path: "/api/patients", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagPatient)},
	}
	SearchPatients = d.Query{
		Name: "searchPatients", Path: "/api/patients/search", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagPatient)},
	}
	GetPatientByID = d.Query{
		Name: "getPatientById", Path: "/api/patients/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagPatient, "id")},
	}
	CreatePatient = d.Mutation{
		Name: "createPatient", Method: http.MethodPost, Path: "/api/patients",
		Invalidates: []d.TagSpec{d.Type(cache.TagPatient)},
	}
	UpdatePatient = d.Mutation{
		Name: "updatePatient", Method: http.MethodPut, Path: "/api/patients/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagPatient, "id"), d.Type(cache.TagPatient)},
	}
	UpdatePatientStatus = d.Mutation{
		Name: "updatePatientStatus", Method: http.MethodPatch, Path: "/api/patients/{id}/status",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagPatient, "id"), d.Type(cache.TagPatient)},
	}
	DeletePatient = d.Mutation{
		Name: "deletePatient", Method: http.MethodDelete, Path: "/api/patients/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagPatient)},
	}
)

// Medical records
var (
	GetMedicalRecordByPatientID = d.Query{
		Name: "getMedicalRecordByPatientId", Path: "/api/medical-records/patient/{patientId}",
		Provides: []d.TagSpec{d.ByParam(cache.TagMedicalRecord, "patientId")},
	}
	GetMedicalRecordByID = d.Query{
		Name: "getMedicalRecordById", Path: "/api/medical-records/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagMedicalRecord, "id")},
	}
	CreateMedicalRecord = d.Mutation{
		Name: "createMedicalRecord", Method: http.MethodPost, Path: "/api/medical-records",
		Invalidates: []d.TagSpec{d.ByField(cache.TagMedicalRecord, "patientId"), d.Type(cache.TagMedicalRecord)},
	}
	UpdateMedicalRecord = d.Mutation{
		Name: "updateMedicalRecord", Method: http.MethodPut, Path: "/api/medical-records/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagMedicalRecord, "id"), d.Type(cache.TagMedicalRecord)},
	}
	DeleteMedicalRecord = d.Mutation{
		Name: "deleteMedicalRecord", Method: http.MethodDelete, Path: "/api/medical-records/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagMedicalRecord)},
	}
)

// Diagnoses
var (
	GetDiagnosesByPatientID = d.Query{
		Name: "getDiagnosesByPatientId", Path: "/api/diagnoses/patient/{patientId}", Defaults: paged,
		Provides: []d.TagSpec{d.ByParam(cache.TagDiagnosis, "patientId"), d.Type(cache.TagDiagnosis)},
	}
	GetDiagnosisByID = d.Query{
		Name: "getDiagnosisById", Path: "/api/diagnoses/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagDiagnosis, "id")},
	}
	CreateDiagnosis = d.Mutation{
		Name: "createDiagnosis", Method: http.MethodPost, Path: "/api/diagnoses",
		Invalidates: []d.TagSpec{d.ByField(cache.TagDiagnosis, "patientId"), d.Type(cache.TagDiagnosis)},
	}
	UpdateDiagnosis = d.Mutation{
		Name: "updateDiagnosis", Method: http.MethodPut, Path: "/api/diagnoses/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagDiagnosis, "id"), d.Type(cache.TagDiagnosis)},
	}
	DeleteDiagnosis = d.Mutation{
		Name: "deleteDiagnosis", Method: http.MethodDelete, Path: "/api/diagnoses/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagDiagnosis)},
	}
)

// Appointments
var (
	GetAppointments = d.Query{
		Name: "getAppointments", Path: "/api/appointments", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagAppointment)},
	}
	GetAppointmentsByDate = d.Query{
		Name: "getAppointmentsByDate", Path: "/api/appointments/date/{date}", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagAppointment)},
	}
	GetAppointmentsByPatientID = d.Query{
		Name: "getAppointmentsByPatientId", Path: "/api/appointments/patient/{patientId}", Defaults: paged,
		Provides: []d.TagSpec{d.ByParam(cache.TagAppointment, "patientId"), d.Type(cache.TagAppointment)},
	}
	GetAppointmentsByDoctorID = d.Query{
		Name: "getAppointmentsByDoctorId", Path: "/api/appointments/doctor/{doctorId}", Defaults: paged,
		Provides: []d.TagSpec{d.ByParam(cache.TagAppointment, "doctorId"), d.Type(cache.TagAppointment)},
	}
	GetAppointmentByID = d.Query{
		Name: "getAppointmentById", Path: "/api/appointments/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagAppointment, "id")},
	}
	CreateAppointment = d.Mutation{
		Name: "createAppointment", Method: http.MethodPost, Path: "/api/appointments",
		Invalidates: []d.TagSpec{d.Type(cache.TagAppointment)},
	}
	UpdateAppointment = d.Mutation{
		Name: "updateAppointment", Method: http.MethodPut, Path: "/api/appointments/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagAppointment, "id"), d.Type(cache.TagAppointment)},
	}
	UpdateAppointmentStatus = d.Mutation{
		Name: "updateAppointmentStatus", Method: http.MethodPatch, Path: "/api/appointments/{id}/status",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagAppointment, "id"), d.Type(cache.TagAppointment)},
	}
	DeleteAppointment = d.Mutation{
		Name: "deleteAppointment", Method: http.MethodDelete, Path: "/api/appointments/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagAppointment)},
	}
)

// Prescriptions
var (
	GetPrescriptions = d.Query{
		Name: "getPrescriptions", Path: "/api/prescriptions", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagPrescription)},
	}
	GetPrescriptionsByPatientID = d.Query{
		Name: "getPrescriptionsByPatientId", Path: "/api/prescriptions/patient/{patientId}", Defaults: paged,
		Provides: []d.TagSpec{d.ByParam(cache.TagPrescription, "patientId"), d.Type(cache.TagPrescription)},
	}
	GetPrescriptionByID = d.Query{
		Name: "getPrescriptionById", Path: "/api/prescriptions/{id}",
		Provides: []d.TagSpec{d.ByParam(cache.TagPrescription, "id")},
	}
	CreatePrescription = d.Mutation{
		Name: "createPrescription", Method: http.MethodPost, Path: "/api/prescriptions",
		Invalidates: []d.TagSpec{d.Type(cache.TagPrescription)},
	}
	UpdatePrescription = d.Mutation{
		Name: "updatePrescription", Method: http.MethodPut, Path: "/api/prescriptions/{id}",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagPrescription, "id"), d.Type(cache.TagPrescription)},
	}
	UpdatePrescriptionStatus = d.Mutation{
		Name: "updatePrescriptionStatus", Method: http.MethodPatch, Path: "/api/prescriptions/{id}/status",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagPrescription, "id"), d.Type(cache.TagPrescription)},
	}
	DeletePrescription = d.Mutation{
		Name: "deletePrescription", Method: http.MethodDelete, Path: "/api/prescriptions/{id}",
		Invalidates: []d.TagSpec{d.Type(cache.TagPrescription)},
	}
	AddPrescriptionItem = d.Mutation{
		Name: "addPrescriptionItem", Method: http.MethodPost, Path: "/api/prescriptions/{prescriptionId}/items",
		Invalidates: []d.TagSpec{d.ByParam(cache.TagPrescription, "prescriptionId")},
	}
	UpdatePrescriptionItem = d.Mutation{
		Name: "updatePrescriptionItem", Method: http.MethodPut, Path: "/api/prescriptions/items/{itemId}",
		Invalidates: []d.TagSpec{d.Type(cache.TagPrescription)},
	}
	DeletePrescriptionItem = d.Mutation{
		Name: "deletePrescriptionItem", Method: http.MethodDelete, Path: "/api/prescriptions/items/{itemId}",
		Invalidates: []d.TagSpec{d.Type(cache.TagPrescription)},
	}
)

// Statistics
var (
	GetLatestStats = d.Query{
		Name: "getLatestStats", Path: "/api/stats/latest",
		Provides: []d.TagSpec{d.Type(cache.TagStats)},
	}
	GenerateStats = d.Mutation{
		Name: "generateStats", Method: http.MethodPost, Path: "/api/stats/generate",
		Invalidates: []d.TagSpec{d.Type(cache.TagStats)},
	}
)

// Activity logs
var (
	GetActivityLogs = d.Query{
		Name: "getActivityLogs", Path: "/api/activity-logs", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagActivityLog)},
	}
	GetActivityLogsByUserID = d.Query{
		Name: "getActivityLogsByUserId", Path: "/api/activity-logs/user/{userId}", Defaults: paged,
		Provides: []d.TagSpec{d.ByParam(cache.TagActivityLog, "userId"), d.Type(cache.TagActivityLog)},
	}
	GetActivityLogsByEntity = d.Query{
		Name: "getActivityLogsByEntity", Path: "/api/activity-logs/entity/{entityType}/{entityId}", Defaults: paged,
		Provides: []d.TagSpec{d.Type(cache.TagActivityLog)},
	}
)

// Queries lists every read endpoint.
func Queries() []d.Query {
	return []d.Query{
		GetUsers, GetDoctors, GetUserByID, GetUserProfile,
		GetPatients, SearchPatients, GetPatientByID,
		GetMedicalRecordByPatientID, GetMedicalRecordByID,
		GetDiagnosesByPatientID, GetDiagnosisByID,
		GetAppointments, GetAppointmentsByDate, GetAppointmentsByPatientID, GetAppointmentsByDoctorID, GetAppointmentByID,
		GetPrescriptions, GetPrescriptionsByPatientID, GetPrescriptionByID,
		GetLatestStats,
		GetActivityLogs, GetActivityLogsByUserID, GetActivityLogsByEntity,
	}
}

// Mutations lists every write endpoint.
func Mutations() []d.Mutation {
	return []d.Mutation{
		Login, RegisterUser, UpdateUser, UpdatePassword, DeleteUser,
		CreatePatient, UpdatePatient, UpdatePatientStatus, DeletePatient,
		CreateMedicalRecord, UpdateMedicalRecord, DeleteMedicalRecord,
		CreateDiagnosis, UpdateDiagnosis, DeleteDiagnosis,
		CreateAppointment, UpdateAppointment, UpdateAppointmentStatus, DeleteAppointment,
		CreatePrescription, UpdatePrescription, UpdatePrescriptionStatus, DeletePrescription,
		AddPrescriptionItem, UpdatePrescriptionItem, DeletePrescriptionItem,
		GenerateStats,
	}
}
