package guard

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Public Routes
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteUnauthorized = "/unauthorized"

	// Staff Routes - any authenticated user
	RouteDashboard      = "/dashboard"
	RoutePatients       = "/patients"
	RoutePatientDetail  = "/patients/{id}"
	RouteAppointments   = "/appointments"
	RoutePrescriptions  = "/prescriptions"
	RouteMedicalRecords = "/medical-records"
	RouteHistory        = "/history"

	// Admin Routes
	RouteUsers = "/users"
)
