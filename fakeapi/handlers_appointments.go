package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
)

// listAppointments pages the matching appointments ordered by date then time.
func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request, keep func(clinicmodel.Appointment) bool) {
	status := clinicmodel.AppointmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeValidationError(w, fieldErrors{"status": "must be a known appointment status"})
		return
	}
	rows := s.data.appointments.list(func(a clinicmodel.Appointment) bool {
		return (status == "" || a.Status == status) && keep(a)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AppointmentDate != rows[j].AppointmentDate {
			return rows[i].AppointmentDate < rows[j].AppointmentDate
		}
		return rows[i].AppointmentTime < rows[j].AppointmentTime
	})
	page, limit := pageParams(r)
	appointments, pagination := paginate(rows, page, limit)
	writeJSON(w, http.StatusOK, clinicmodel.AppointmentsResponse{Appointments: appointments, Pagination: pagination})
}

func (s *Server) ListAppointmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.listAppointments(w, r, func(clinicmodel.Appointment) bool { return true })
	}
}

func (s *Server) AppointmentsByDateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			writeValidationError(w, fieldErrors{"date": "must be a date in YYYY-MM-DD format"})
			return
		}
		s.listAppointments(w, r, func(a clinicmodel.Appointment) bool { return a.AppointmentDate == date })
	}
}

func (s *Server) AppointmentsByPatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		s.listAppointments(w, r, func(a clinicmodel.Appointment) bool { return a.PatientID == patientID })
	}
}

func (s *Server) AppointmentsByDoctorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := chi.URLParam(r, "doctorId")
		s.listAppointments(w, r, func(a clinicmodel.Appointment) bool { return a.DoctorID == doctorID })
	}
}

func (s *Server) GetAppointmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.data.appointments.get(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Appointment not found")
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// doubleBooked reports whether the doctor already holds a live appointment in the slot.
func (s *Server) doubleBooked(req clinicmodel.CreateAppointmentRequest, excludeID string) bool {
	clashes := s.data.appointments.list(func(a clinicmodel.Appointment) bool {
		return a.ID != excludeID &&
			a.DoctorID == req.DoctorID &&
			a.AppointmentDate == req.AppointmentDate &&
			a.AppointmentTime == req.AppointmentTime &&
			a.Status != clinicmodel.AppointmentCancelled
	})
	return len(clashes) > 0
}

func (s *Server) CreateAppointmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateAppointmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateAppointment(req); !f.empty() {
			writeValidationError(w, f)
			return
		}
		if !s.requirePatient(w, "patientId", req.PatientID) || !s.requireDoctor(w, "doctorId", req.DoctorID) {
			return
		}
		if s.doubleBooked(req, "") {
			writeJSONError(w, http.StatusConflict, "Doctor already has an appointment at this time")
			return
		}

		now := NowTimeFunc().UTC()
		a := s.data.appointments.insert(func(id string) clinicmodel.Appointment {
			a := appointmentFromRequest(clinicmodel.Appointment{ID: id, Status: clinicmodel.AppointmentScheduled, CreatedAt: now}, req)
			a.UpdatedAt = now
			return a
		})

		s.record(r, actionCreate, entityAppointment, a.ID, fmt.Sprintf("Scheduled %s on %s at %s", a.Type, a.AppointmentDate, a.AppointmentTime))
		writeJSON(w, http.StatusCreated, a)
	}
}

func (s *Server) UpdateAppointmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreateAppointmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateAppointment(req); !f.empty() {
			writeValidationError(w, f)
			return
		}
		appointmentID := chi.URLParam(r, "id")
		if s.doubleBooked(req, appointmentID) {
			writeJSONError(w, http.StatusConflict, "Doctor already has an appointment at this time")
			return
		}

		a, ok := s.data.appointments.update(appointmentID, func(a *clinicmodel.Appointment) {
			*a = appointmentFromRequest(*a, req)
			a.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Appointment not found")
			return
		}

		s.record(r, actionUpdate, entityAppointment, a.ID, "Updated appointment")
		writeJSON(w, http.StatusOK, a)
	}
}

func (s *Server) UpdateAppointmentStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.UpdateAppointmentStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			writeValidationError(w, fieldErrors{"status": "must be a known appointment status"})
			return
		}

		var previous clinicmodel.AppointmentStatus
		a, ok := s.data.appointments.update(chi.URLParam(r, "id"), func(a *clinicmodel.Appointment) {
			previous = a.Status
			a.Status = req.Status
			a.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Appointment not found")
			return
		}

		s.record(r, actionStatus, entityAppointment, a.ID, fmt.Sprintf("Status changed from %s to %s", previous, a.Status))
		writeJSON(w, http.StatusOK, a)
	}
}

func (s *Server) DeleteAppointmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointmentID := chi.URLParam(r, "id")
		if !s.data.appointments.remove(appointmentID) {
			writeJSONError(w, http.StatusNotFound, "Appointment not found")
			return
		}
		s.record(r, actionDelete, entityAppointment, appointmentID, "Deleted appointment")
		writeMessage(w, "Appointment deleted successfully")
	}
}

func appointmentFromRequest(a clinicmodel.Appointment, req clinicmodel.CreateAppointmentRequest) clinicmodel.Appointment {
	a.PatientID = req.PatientID
	a.DoctorID = req.DoctorID
	a.AppointmentDate = req.AppointmentDate
	a.AppointmentTime = req.AppointmentTime
	a.Duration = req.Duration
	a.Type = req.Type
	a.Notes = req.Notes
	return a
}
