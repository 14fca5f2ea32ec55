package fakeapi

const (
	RouteLogin        = "/api/users/login"
	RouteRegister     = "/api/users/register"
	RouteUsers        = "/api/users"
	RouteDoctors      = "/api/users/doctors"
	RouteProfile      = "/api/users/profile"
	RouteUser         = "/api/users/{id}"
	RouteUserPassword = "/api/users/{id}/password"

	RoutePatients      = "/api/patients"
	RoutePatientSearch = "/api/patients/search"
	RoutePatient       = "/api/patients/{id}"
	RoutePatientStatus = "/api/patients/{id}/status"

	RouteMedicalRecords          = "/api/medical-records"
	RouteMedicalRecordsByPatient = "/api/medical-records/patient/{patientId}"
	RouteMedicalRecord           = "/api/medical-records/{id}"

	RouteDiagnoses          = "/api/diagnoses"
	RouteDiagnosesByPatient = "/api/diagnoses/patient/{patientId}"
	RouteDiagnosis          = "/api/diagnoses/{id}"

	RouteAppointments          = "/api/appointments"
	RouteAppointmentsByDate    = "/api/appointments/date/{date}"
	RouteAppointmentsByPatient = "/api/appointments/patient/{patientId}"
	RouteAppointmentsByDoctor  = "/api/appointments/doctor/{doctorId}"
	RouteAppointment           = "/api/appointments/{id}"
	RouteAppointmentStatus     = "/api/appointments/{id}/status"

	RoutePrescriptions          = "/api/prescriptions"
	RoutePrescriptionsByPatient = "/api/prescriptions/patient/{patientId}"
	RoutePrescription           = "/api/prescriptions/{id}"
	RoutePrescriptionStatus     = "/api/prescriptions/{id}/status"
	RoutePrescriptionItems      = "/api/prescriptions/{id}/items"
	RoutePrescriptionItem       = "/api/prescriptions/items/{itemId}"

	RouteStatsLatest   = "/api/stats/latest"
	RouteStatsGenerate = "/api/stats/generate"

	RouteActivityLogs         = "/api/activity-logs"
	RouteActivityLogsByUser   = "/api/activity-logs/user/{userId}"
	RouteActivityLogsByEntity = "/api/activity-logs/entity/{entityType}/{entityId}"
)
