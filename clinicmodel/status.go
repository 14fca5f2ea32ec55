package clinicmodel

import "slices"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return slices.Contains([]Gender{GenderMale, GenderFemale, GenderOther}, g)
}

type PatientStatus string

const (
	PatientActive     PatientStatus = "active"
	PatientInactive   PatientStatus = "inactive"
	PatientDischarged PatientStatus = "discharged"
)

func (s PatientStatus) Valid() bool {
	return slices.Contains([]PatientStatus{PatientActive, PatientInactive, PatientDischarged}, s)
}

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	return slices.Contains([]Severity{SeverityMild, SeverityModerate, SeveritySevere}, s)
}

type DiagnosisStatus string

const (
	DiagnosisActive   DiagnosisStatus = "active"
	DiagnosisResolved DiagnosisStatus = "resolved"
	DiagnosisChronic  DiagnosisStatus = "chronic"
)

func (s DiagnosisStatus) Valid() bool {
	return slices.Contains([]DiagnosisStatus{DiagnosisActive, DiagnosisResolved, DiagnosisChronic}, s)
}

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentFollowUp     AppointmentType = "follow-up"
	AppointmentEmergency    AppointmentType = "emergency"
	AppointmentRoutine      AppointmentType = "routine"
)

func (t AppointmentType) Valid() bool {
	return slices.Contains([]AppointmentType{AppointmentConsultation, AppointmentFollowUp, AppointmentEmergency, AppointmentRoutine}, t)
}

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
	AppointmentCompleted, AppointmentCancelled, AppointmentNoShow,
}

func (s AppointmentStatus) Valid() bool {
	return slices.Contains(AppointmentStatuses, s)
}

type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "pending"
	PrescriptionApproved  PrescriptionStatus = "approved"
	PrescriptionDispensed PrescriptionStatus = "dispensed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

func (s PrescriptionStatus) Valid() bool {
	return slices.Contains([]PrescriptionStatus{PrescriptionPending, PrescriptionApproved, PrescriptionDispensed, PrescriptionCancelled}, s)
}
