// Package clinicmodel holds the JSON shapes exchanged with the clinic backend.
package clinicmodel

import (
	"time"

	"github.com/jrsteele09/clinic-console/users"
)

// Pagination is embedded in every list response.
type Pagination struct {
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Total       int `json:"total"`
}

type Patient struct {
	ID               string        `json:"id"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	DateOfBirth      string        `json:"dateOfBirth"` // YYYY-MM-DD
	Gender           Gender        `json:"gender"`
	Phone            string        `json:"phone"`
	Email            string        `json:"email,omitempty"`
	Address          string        `json:"address,omitempty"`
	EmergencyContact string        `json:"emergencyContact,omitempty"`
	MedicalHistory   string        `json:"medicalHistory,omitempty"`
	Allergies        string        `json:"allergies,omitempty"`
	Status           PatientStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           Gender `json:"gender"`
	Phone            string `json:"phone"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	MedicalHistory   string `json:"medicalHistory,omitempty"`
	Allergies        string `json:"allergies,omitempty"`
}

type UpdatePatientStatusRequest struct {
	Status PatientStatus `json:"status"`
}

type PatientsResponse struct {
	Patients []Patient `json:"patients"`
	Pagination
}

type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Diagnosis string    `json:"diagnosis"`
	Symptoms  string    `json:"symptoms"`
	Treatment string    `json:"treatment"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateMedicalRecordRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Diagnosis string `json:"diagnosis"`
	Symptoms  string `json:"symptoms"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes,omitempty"`
}

type Diagnosis struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId"`
	DoctorID    string          `json:"doctorId"`
	Condition   string          `json:"condition"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
	Status      DiagnosisStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CreateDiagnosisRequest struct {
	PatientID   string          `json:"patientId"`
	DoctorID    string          `json:"doctorId"`
	Condition   string          `json:"condition"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
	Status      DiagnosisStatus `json:"status"`
}

type DiagnosesResponse struct {
	Diagnoses []Diagnosis `json:"diagnoses"`
	Pagination
}

type Appointment struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId"`
	DoctorID        string            `json:"doctorId"`
	AppointmentDate string            `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string            `json:"appointmentTime"` // HH:MM
	Duration        int               `json:"duration"`        // Minutes
	Type            AppointmentType   `json:"type"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	PatientID       string          `json:"patientId"`
	DoctorID        string          `json:"doctorId"`
	AppointmentDate string          `json:"appointmentDate"`
	AppointmentTime string          `json:"appointmentTime"`
	Duration        int             `json:"duration"`
	Type            AppointmentType `json:"type"`
	Notes           string          `json:"notes,omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status"`
}

type AppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Pagination
}

type PrescriptionItem struct {
	ID             string `json:"id"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
	Quantity       int    `json:"quantity"`
}

type Prescription struct {
	ID               string             `json:"id"`
	PatientID        string             `json:"patientId"`
	DoctorID         string             `json:"doctorId"`
	PrescriptionDate string             `json:"prescriptionDate"`
	Status           PrescriptionStatus `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

type CreatePrescriptionItemRequest struct {
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
	Quantity       int    `json:"quantity"`
}

type CreatePrescriptionRequest struct {
	PatientID        string                          `json:"patientId"`
	DoctorID         string                          `json:"doctorId"`
	PrescriptionDate string                          `json:"prescriptionDate"`
	Notes            string                          `json:"notes,omitempty"`
	Items            []CreatePrescriptionItemRequest `json:"items"`
}

type UpdatePrescriptionStatusRequest struct {
	Status PrescriptionStatus `json:"status"`
}

type PrescriptionsResponse struct {
	Prescriptions []Prescription `json:"prescriptions"`
	Pagination
}

type PrescriptionDetailResponse struct {
	Prescription
	Items []PrescriptionItem `json:"items"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserRequest struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Role      users.RoleType `json:"role"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateUserRequest carries the editable profile fields; empty fields are left unchanged.
type UpdateUserRequest struct {
	FirstName string         `json:"firstName,omitempty"`
	LastName  string         `json:"lastName,omitempty"`
	Email     string         `json:"email,omitempty"`
	Role      users.RoleType `json:"role,omitempty"`
	IsActive  *bool          `json:"isActive,omitempty"`
}

type UsersResponse struct {
	Users []users.User `json:"users"`
	Pagination
}

type MonthlyStats struct {
	Month         string `json:"month"`
	Patients      int    `json:"patients"`
	Appointments  int    `json:"appointments"`
	Prescriptions int    `json:"prescriptions"`
}

type Stats struct {
	TotalPatients      int            `json:"totalPatients"`
	TotalAppointments  int            `json:"totalAppointments"`
	TotalPrescriptions int            `json:"totalPrescriptions"`
	ActiveUsers        int            `json:"activeUsers"`
	MonthlyStats       []MonthlyStats `json:"monthlyStats"`
}

type ActivityLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Details    string    `json:"details"`
	Timestamp  time.Time `json:"timestamp"`
}

type ActivityLogsResponse struct {
	Logs []ActivityLog `json:"logs"`
	Pagination
}

// MessageResponse is returned by deletes and password changes.
type MessageResponse struct {
	Message string `json:"message"`
}
