package fakeapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/users"
)

// requireDoctor writes a 400 naming field and returns false unless doctorID is an active doctor.
func (s *Server) requireDoctor(w http.ResponseWriter, field, doctorID string) bool {
	doctor, err := s.users.GetByID(doctorID)
	if err != nil || doctor.Role != users.RoleDoctor || !doctor.IsActive {
		writeValidationError(w, fieldErrors{field: "doctor does not exist"})
		return false
	}
	return true
}

// MEDICAL RECORDS

func (s *Server) MedicalRecordsByPatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		writeJSON(w, http.StatusOK, s.data.records.list(func(m clinicmodel.MedicalRecord) bool {
			return m.PatientID == patientID
		}))
	}
}

func (s *Server) GetMedicalRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := s.data.records.get(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Medical record not found")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CreateMedicalRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateMedicalRecordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateMedicalRecord(req); !f.empty() {
			writeValidationError(w, f)
			return
		}
		if !s.requirePatient(w, "patientId", req.PatientID) || !s.requireDoctor(w, "doctorId", req.DoctorID) {
			return
		}

		now := NowTimeFunc().UTC()
		m := s.data.records.insert(func(id string) clinicmodel.MedicalRecord {
			m := recordFromRequest(clinicmodel.MedicalRecord{ID: id, CreatedAt: now}, req)
			m.UpdatedAt = now
			return m
		})

		s.record(r, actionCreate, entityMedicalRecord, m.ID, "Created medical record for patient "+m.PatientID)
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) UpdateMedicalRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateMedicalRecordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateMedicalRecord(req); !f.empty() {
			writeValidationError(w, f)
			return
		}

		m, ok := s.data.records.update(chi.URLParam(r, "id"), func(m *clinicmodel.MedicalRecord) {
			*m = recordFromRequest(*m, req)
			m.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Medical record not found")
			return
		}

		s.record(r, actionUpdate, entityMedicalRecord, m.ID, "Updated medical record")
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) DeleteMedicalRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "id")
		if !s.data.records.remove(recordID) {
			writeJSONError(w, http.StatusNotFound, "Medical record not found")
			return
		}
		s.record(r, actionDelete, entityMedicalRecord, recordID, "Deleted medical record")
		writeMessage(w, "Medical record deleted successfully")
	}
}

func recordFromRequest(m clinicmodel.MedicalRecord, req clinicmodel.CreateMedicalRecordRequest) clinicmodel.MedicalRecord {
	m.PatientID = req.PatientID
	m.DoctorID = req.DoctorID
	m.Diagnosis = req.Diagnosis
	m.Symptoms = req.Symptoms
	m.Treatment = req.Treatment
	m.Notes = req.Notes
	return m
}

// DIAGNOSES

func (s *Server) DiagnosesByPatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		rows := s.data.diagnoses.list(func(d clinicmodel.Diagnosis) bool { return d.PatientID == patientID })
		page, limit := pageParams(r)
		diagnoses, pagination := paginate(rows, page, limit)
		writeJSON(w, http.StatusOK, clinicmodel.DiagnosesResponse{Diagnoses: diagnoses, Pagination: pagination})
	}
}

func (s *Server) GetDiagnosisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.data.diagnoses.get(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Diagnosis not found")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) CreateDiagnosisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateDiagnosisRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateDiagnosis(req); !f.empty() {
			writeValidationError(w, f)
			return
		}
		if !s.requirePatient(w, "patientId", req.PatientID) || !s.requireDoctor(w, "doctorId", req.DoctorID) {
			return
		}

		now := NowTimeFunc().UTC()
		d := s.data.diagnoses.insert(func(id string) clinicmodel.Diagnosis {
			d := diagnosisFromRequest(clinicmodel.Diagnosis{ID: id, Status: clinicmodel.DiagnosisActive, CreatedAt: now}, req)
			d.UpdatedAt = now
			return d
		})

		s.record(r, actionCreate, entityDiagnosis, d.ID, "Diagnosed "+d.Condition)
		writeJSON(w, http.StatusCreated, d)
	}
}

func (s *Server) UpdateDiagnosisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateDiagnosisRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateDiagnosis(req); !f.empty() {
			writeValidationError(w, f)
			return
		}

		d, ok := s.data.diagnoses.update(chi.URLParam(r, "id"), func(d *clinicmodel.Diagnosis) {
			*d = diagnosisFromRequest(*d, req)
			d.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Diagnosis not found")
			return
		}

		s.record(r, actionUpdate, entityDiagnosis, d.ID, "Updated diagnosis")
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) DeleteDiagnosisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		diagnosisID := chi.URLParam(r, "id")
		if !s.data.diagnoses.remove(diagnosisID) {
			writeJSONError(w, http.StatusNotFound, "Diagnosis not found")
			return
		}
		s.record(r, actionDelete, entityDiagnosis, diagnosisID, "Deleted diagnosis")
		writeMessage(w, "Diagnosis deleted successfully")
	}
}

// diagnosisFromRequest keeps the existing status when the request leaves it empty.
func diagnosisFromRequest(d clinicmodel.Diagnosis, req clinicmodel.CreateDiagnosisRequest) clinicmodel.Diagnosis {
	d.PatientID = req.PatientID
	d.DoctorID = req.DoctorID
	d.Condition = req.Condition
	d.Description = req.Description
	d.Severity = req.Severity
	if req.Status != "" {
		d.Status = req.Status
	}
	return d
}
