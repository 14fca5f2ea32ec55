package fakeapi

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/users"
)

// fieldErrors maps a request field to the reason it was rejected.
type fieldErrors map[string]string

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, field+" is required")
	}
}

func (f fieldErrors) check(ok bool, field, message string) {
	if !ok {
		f.add(field, message)
	}
}

// add keeps the first message recorded for a field.
func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) email(field, value string) {
	if value == "" {
		return
	}
	_, err := mail.ParseAddress(value)
	f.check(err == nil, field, "must be a valid email address")
}

func (f fieldErrors) date(field, value string) {
	if value == "" {
		return
	}
	_, err := time.Parse(time.DateOnly, value)
	f.check(err == nil, field, "must be a date in YYYY-MM-DD format")
}

func (f fieldErrors) clock(field, value string) {
	if value == "" {
		return
	}
	_, err := time.Parse("15:04", value)
	f.check(err == nil, field, "must be a time in HH:MM format")
}

func (f fieldErrors) empty() bool {
	return len(f) == 0
}

func validatePatient(req clinicmodel.CreatePatientRequest) fieldErrors {
	f := fieldErrors{}
	f.required("firstName", req.FirstName)
	f.required("lastName", req.LastName)
	f.required("dateOfBirth", req.DateOfBirth)
	f.date("dateOfBirth", req.DateOfBirth)
	f.check(req.Gender.Valid(), "gender", "must be one of male, female, other")
	f.required("phone", req.Phone)
	f.email("email", req.Email)
	return f
}

func validateMedicalRecord(req clinicmodel.CreateMedicalRecordRequest) fieldErrors {
	f := fieldErrors{}
	f.required("patientId", req.PatientID)
	f.required("doctorId", req.DoctorID)
	f.required("diagnosis", req.Diagnosis)
	f.required("symptoms", req.Symptoms)
	f.required("treatment", req.Treatment)
	return f
}

func validateDiagnosis(req clinicmodel.CreateDiagnosisRequest) fieldErrors {
	f := fieldErrors{}
	f.required("patientId", req.PatientID)
	f.required("doctorId", req.DoctorID)
	f.required("condition", req.Condition)
	f.check(req.Severity.Valid(), "severity", "must be one of mild, moderate, severe")
	f.check(req.Status == "" || req.Status.Valid(), "status", "must be one of active, resolved, chronic")
	return f
}

func validateAppointment(req clinicmodel.CreateAppointmentRequest) fieldErrors {
	f := fieldErrors{}
	f.required("patientId", req.PatientID)
	f.required("doctorId", req.DoctorID)
	f.required("appointmentDate", req.AppointmentDate)
	f.date("appointmentDate", req.AppointmentDate)
	f.required("appointmentTime", req.AppointmentTime)
	f.clock("appointmentTime", req.AppointmentTime)
	f.check(req.Duration > 0, "duration", "must be a positive number of minutes")
	f.check(req.Type.Valid(), "type", "must be one of consultation, follow-up, emergency, routine")
	return f
}

func validatePrescriptionItem(prefix string, req clinicmodel.CreatePrescriptionItemRequest, f fieldErrors) {
	f.required(prefix+"medicationName", req.MedicationName)
	f.required(prefix+"dosage", req.Dosage)
	f.required(prefix+"frequency", req.Frequency)
	f.check(req.Quantity > 0, prefix+"quantity", "must be greater than zero")
}

func validatePrescription(req clinicmodel.CreatePrescriptionRequest, requireItems bool) fieldErrors {
	f := fieldErrors{}
	f.required("patientId", req.PatientID)
	f.required("doctorId", req.DoctorID)
	f.required("prescriptionDate", req.PrescriptionDate)
	f.date("prescriptionDate", req.PrescriptionDate)
	if requireItems {
		f.check(len(req.Items) > 0, "items", "at least one item is required")
	}
	for i, item := range req.Items {
		validatePrescriptionItem("items."+strconv.Itoa(i)+".", item, f)
	}
	return f
}

func validateRegistration(req clinicmodel.RegisterUserRequest) fieldErrors {
	f := fieldErrors{}
	f.required("email", req.Email)
	f.email("email", req.Email)
	f.required("firstName", req.FirstName)
	f.required("lastName", req.LastName)
	f.check(req.Role.Valid(), "role", "must be a known role")
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		f.add("password", err.Error())
	}
	return f
}

func validateUserUpdate(req clinicmodel.UpdateUserRequest) fieldErrors {
	f := fieldErrors{}
	f.email("email", req.Email)
	f.check(req.Role == "" || req.Role.Valid(), "role", "must be a known role")
	return f
}
