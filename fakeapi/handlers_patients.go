package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
)

func (s *Server) ListPatientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := clinicmodel.PatientStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			writeValidationError(w, fieldErrors{"status": "must be one of active, inactive, discharged"})
			return
		}
		rows := s.data.patients.list(func(p clinicmodel.Patient) bool {
			return status == "" || p.Status == status
		})
		page, limit := pageParams(r)
		patients, pagination := paginate(rows, page, limit)
		writeJSON(w, http.StatusOK, clinicmodel.PatientsResponse{Patients: patients, Pagination: pagination})
	}
}

// SearchPatientsHandler matches q against name, email and phone, ignoring case.
func (s *Server) SearchPatientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
		rows := s.data.patients.list(func(p clinicmodel.Patient) bool {
			if q == "" {
				return true
			}
			for _, field := range []string{p.FullName(), p.Email, p.Phone} {
				if strings.Contains(strings.ToLower(field), q) {
					return true
				}
			}
			return false
		})
		page, limit := pageParams(r)
		patients, pagination := paginate(rows, page, limit)
		writeJSON(w, http.StatusOK, clinicmodel.PatientsResponse{Patients: patients, Pagination: pagination})
	}
}

func (s *Server) GetPatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.data.patients.get(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Patient not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) CreatePatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreatePatientRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validatePatient(req); !f.empty() {
			writeValidationError(w, f)
			return
		}

		now := NowTimeFunc().UTC()
		p := s.data.patients.insert(func(id string) clinicmodel.Patient {
			p := patientFromRequest(clinicmodel.Patient{ID: id, Status: clinicmodel.PatientActive, CreatedAt: now}, req)
			p.UpdatedAt = now
			return p
		})

		s.record(r, actionCreate, entityPatient, p.ID, "Registered patient "+p.FullName())
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) UpdatePatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreatePatientRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validatePatient(req); !f.empty() {
			writeValidationError(w, f)
			return
		}

		p, ok := s.data.patients.update(chi.URLParam(r, "id"), func(p *clinicmodel.Patient) {
			*p = patientFromRequest(*p, req)
			p.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Patient not found")
			return
		}

		s.record(r, actionUpdate, entityPatient, p.ID, "Updated patient "+p.FullName())
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) UpdatePatientStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.UpdatePatientStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			writeValidationError(w, fieldErrors{"status": "must be one of active, inactive, discharged"})
			return
		}

		var previous clinicmodel.PatientStatus
		p, ok := s.data.patients.update(chi.URLParam(r, "id"), func(p *clinicmodel.Patient) {
			previous = p.Status
			p.Status = req.Status
			p.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Patient not found")
			return
		}

		s.record(r, actionStatus, entityPatient, p.ID, fmt.Sprintf("Status changed from %s to %s", previous, p.Status))
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) DeletePatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "id")
		if !s.data.patients.remove(patientID) {
			writeJSONError(w, http.StatusNotFound, "Patient not found")
			return
		}
		s.data.appointments.removeWhere(func(a clinicmodel.Appointment) bool { return a.PatientID == patientID })
		s.data.records.removeWhere(func(m clinicmodel.MedicalRecord) bool { return m.PatientID == patientID })
		s.data.diagnoses.removeWhere(func(d clinicmodel.Diagnosis) bool { return d.PatientID == patientID })

		s.record(r, actionDelete, entityPatient, patientID, "Deleted patient")
		writeMessage(w, "Patient deleted successfully")
	}
}

func patientFromRequest(p clinicmodel.Patient, req clinicmodel.CreatePatientRequest) clinicmodel.Patient {
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.DateOfBirth = req.DateOfBirth
	p.Gender = req.Gender
	p.Phone = req.Phone
	p.Email = req.Email
	p.Address = req.Address
	p.EmergencyContact = req.EmergencyContact
	p.MedicalHistory = req.MedicalHistory
	p.Allergies = req.Allergies
	return p
}

// requirePatient writes a 400 naming field and returns false when the patient does not exist.
func (s *Server) requirePatient(w http.ResponseWriter, field, patientID string) bool {
	if _, ok := s.data.patients.get(patientID); !ok {
		writeValidationError(w, fieldErrors{field: "patient does not exist"})
		return false
	}
	return true
}
