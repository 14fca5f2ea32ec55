package fakeapi

import (
	"net/http"
)

func (s *Server) initRoutes() {
	auth := s.Authenticated
	admin := func() []func(http.HandlerFunc) http.HandlerFunc { return auth(s.RequireAdmin()) }
	clinician := func() []func(http.HandlerFunc) http.HandlerFunc { return auth(s.RequireClinician()) }

	// USERS
	s.RegisterRouteFunc(http.MethodPost, RouteLogin, s.LoginHandler())
	s.RegisterRouteFunc(http.MethodPost, RouteRegister, ChainMiddleware(s.RegisterUserHandler(), admin()...))
	s.RegisterRouteFunc(http.MethodGet, RouteUsers, ChainMiddleware(s.ListUsersHandler(), admin()...))
	s.RegisterRouteFunc(http.MethodGet, RouteDoctors, ChainMiddleware(s.ListDoctorsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteProfile, ChainMiddleware(s.ProfileHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteUser, ChainMiddleware(s.GetUserHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPut, RouteUser, ChainMiddleware(s.UpdateUserHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPatch, RouteUserPassword, ChainMiddleware(s.UpdatePasswordHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodDelete, RouteUser, ChainMiddleware(s.DeleteUserHandler(), admin()...))

	// PATIENTS
	s.RegisterRouteFunc(http.MethodGet, RoutePatients, ChainMiddleware(s.ListPatientsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RoutePatientSearch, ChainMiddleware(s.SearchPatientsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RoutePatient, ChainMiddleware(s.GetPatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RoutePatients, ChainMiddleware(s.CreatePatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPut, RoutePatient, ChainMiddleware(s.UpdatePatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPatch, RoutePatientStatus, ChainMiddleware(s.UpdatePatientStatusHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodDelete, RoutePatient, ChainMiddleware(s.DeletePatientHandler(), admin()...))

	// MEDICAL RECORDS
	s.RegisterRouteFunc(http.MethodGet, RouteMedicalRecordsByPatient, ChainMiddleware(s.MedicalRecordsByPatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteMedicalRecord, ChainMiddleware(s.GetMedicalRecordHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RouteMedicalRecords, ChainMiddleware(s.CreateMedicalRecordHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPut, RouteMedicalRecord, ChainMiddleware(s.UpdateMedicalRecordHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodDelete, RouteMedicalRecord, ChainMiddleware(s.DeleteMedicalRecordHandler(), clinician()...))

	// DIAGNOSES
	s.RegisterRouteFunc(http.MethodGet, RouteDiagnosesByPatient, ChainMiddleware(s.DiagnosesByPatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteDiagnosis, ChainMiddleware(s.GetDiagnosisHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RouteDiagnoses, ChainMiddleware(s.CreateDiagnosisHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPut, RouteDiagnosis, ChainMiddleware(s.UpdateDiagnosisHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodDelete, RouteDiagnosis, ChainMiddleware(s.DeleteDiagnosisHandler(), clinician()...))

	// APPOINTMENTS
	s.RegisterRouteFunc(http.MethodGet, RouteAppointments, ChainMiddleware(s.ListAppointmentsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteAppointmentsByDate, ChainMiddleware(s.AppointmentsByDateHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteAppointmentsByPatient, ChainMiddleware(s.AppointmentsByPatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteAppointmentsByDoctor, ChainMiddleware(s.AppointmentsByDoctorHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RouteAppointment, ChainMiddleware(s.GetAppointmentHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RouteAppointments, ChainMiddleware(s.CreateAppointmentHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPut, RouteAppointment, ChainMiddleware(s.UpdateAppointmentHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPatch, RouteAppointmentStatus, ChainMiddleware(s.UpdateAppointmentStatusHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodDelete, RouteAppointment, ChainMiddleware(s.DeleteAppointmentHandler(), auth()...))

	// PRESCRIPTIONS
	s.RegisterRouteFunc(http.MethodGet, RoutePrescriptions, ChainMiddleware(s.ListPrescriptionsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RoutePrescriptionsByPatient, ChainMiddleware(s.PrescriptionsByPatientHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodGet, RoutePrescription, ChainMiddleware(s.GetPrescriptionHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RoutePrescriptions, ChainMiddleware(s.CreatePrescriptionHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPut, RoutePrescription, ChainMiddleware(s.UpdatePrescriptionHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPatch, RoutePrescriptionStatus, ChainMiddleware(s.UpdatePrescriptionStatusHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodDelete, RoutePrescription, ChainMiddleware(s.DeletePrescriptionHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPost, RoutePrescriptionItems, ChainMiddleware(s.AddPrescriptionItemHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodPut, RoutePrescriptionItem, ChainMiddleware(s.UpdatePrescriptionItemHandler(), clinician()...))
	s.RegisterRouteFunc(http.MethodDelete, RoutePrescriptionItem, ChainMiddleware(s.DeletePrescriptionItemHandler(), clinician()...))

	// STATISTICS
	s.RegisterRouteFunc(http.MethodGet, RouteStatsLatest, ChainMiddleware(s.LatestStatsHandler(), auth()...))
	s.RegisterRouteFunc(http.MethodPost, RouteStatsGenerate, ChainMiddleware(s.GenerateStatsHandler(), admin()...))

	// ACTIVITY LOGS
	s.RegisterRouteFunc(http.MethodGet, RouteActivityLogs, ChainMiddleware(s.ListActivityLogsHandler(), admin()...))
	s.RegisterRouteFunc(http.MethodGet, RouteActivityLogsByUser, ChainMiddleware(s.ActivityLogsByUserHandler(), admin()...))
	s.RegisterRouteFunc(http.MethodGet, RouteActivityLogsByEntity, ChainMiddleware(s.ActivityLogsByEntityHandler(), admin()...))

	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Route not found")
	})
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
