package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
)

func (s *Server) listPrescriptions(w http.ResponseWriter, r *http.Request, keep func(clinicmodel.Prescription) bool) {
	status := clinicmodel.PrescriptionStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeValidationError(w, fieldErrors{"status": "must be one of pending, approved, dispensed, cancelled"})
		return
	}
	rows := s.data.prescriptions.list(func(p clinicmodel.Prescription) bool {
		return (status == "" || p.Status == status) && keep(p)
	})
	page, limit := pageParams(r)
	prescriptions, pagination := paginate(rows, page, limit)
	writeJSON(w, http.StatusOK, clinicmodel.PrescriptionsResponse{Prescriptions: prescriptions, Pagination: pagination})
}

func (s *Server) ListPrescriptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.listPrescriptions(w, r, func(clinicmodel.Prescription) bool { return true })
	}
}

func (s *Server) PrescriptionsByPatientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		s.listPrescriptions(w, r, func(p clinicmodel.Prescription) bool { return p.PatientID == patientID })
	}
}

func (s *Server) detail(p clinicmodel.Prescription) clinicmodel.PrescriptionDetailResponse {
	return clinicmodel.PrescriptionDetailResponse{Prescription: p, Items: s.data.itemsOf(p.ID)}
}

func (s *Server) GetPrescriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.data.prescriptions.get(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Prescription not found")
			return
		}
		writeJSON(w, http.StatusOK, s.detail(p))
	}
}

func (s *Server) addItem(prescriptionID string, req clinicmodel.CreatePrescriptionItemRequest) clinicmodel.PrescriptionItem {
	row := s.data.items.insert(func(id string) prescriptionItem {
		return prescriptionItem{PrescriptionItem: itemFromRequest(clinicmodel.PrescriptionItem{ID: id}, req), prescriptionID: prescriptionID}
	})
	return row.PrescriptionItem
}

func (s *Server) CreatePrescriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreatePrescriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validatePrescription(req, true); !f.empty() {
			writeValidationError(w, f)
			return
		}
		if !s.requirePatient(w, "patientId", req.PatientID) || !s.requireDoctor(w, "doctorId", req.DoctorID) {
			return
		}

		now := NowTimeFunc().UTC()
		p := s.data.prescriptions.insert(func(id string) clinicmodel.Prescription {
			p := prescriptionFromRequest(clinicmodel.Prescription{ID: id, Status: clinicmodel.PrescriptionPending, CreatedAt: now}, req)
			p.UpdatedAt = now
			return p
		})
		for _, item := range req.Items {
			s.addItem(p.ID, item)
		}

		s.record(r, actionCreate, entityPrescription, p.ID, fmt.Sprintf("Prescribed %d item(s) for patient %s", len(req.Items), p.PatientID))
		writeJSON(w, http.StatusCreated, s.detail(p))
	}
}

// UpdatePrescriptionHandler replaces the items only when the request lists some.
func (s *Server) UpdatePrescriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreatePrescriptionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validatePrescription(req, false); !f.empty() {
			writeValidationError(w, f)
			return
		}

		p, ok := s.data.prescriptions.update(chi.URLParam(r, "id"), func(p *clinicmodel.Prescription) {
			*p = prescriptionFromRequest(*p, req)
			p.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Prescription not found")
			return
		}
		if len(req.Items) > 0 {
			s.data.items.removeWhere(func(i prescriptionItem) bool { return i.prescriptionID == p.ID })
			for _, item := range req.Items {
				s.addItem(p.ID, item)
			}
		}

		s.record(r, actionUpdate, entityPrescription, p.ID, "Updated prescription")
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) UpdatePrescriptionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.UpdatePrescriptionStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			writeValidationError(w, fieldErrors{"status": "must be one of pending, approved, dispensed, cancelled"})
			return
		}

		var previous clinicmodel.PrescriptionStatus
		p, ok := s.data.prescriptions.update(chi.URLParam(r, "id"), func(p *clinicmodel.Prescription) {
			previous = p.Status
			p.Status = req.Status
			p.UpdatedAt = NowTimeFunc().UTC()
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Prescription not found")
			return
		}

		s.record(r, actionStatus, entityPrescription, p.ID, fmt.Sprintf("Status changed from %s to %s", previous, p.Status))
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) DeletePrescriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID := chi.URLParam(r, "id")
		if !s.data.prescriptions.remove(prescriptionID) {
			writeJSONError(w, http.StatusNotFound, "Prescription not found")
			return
		}
		s.data.items.removeWhere(func(i prescriptionItem) bool { return i.prescriptionID == prescriptionID })

		s.record(r, actionDelete, entityPrescription, prescriptionID, "Deleted prescription")
		writeMessage(w, "Prescription deleted successfully")
	}
}

func (s *Server) AddPrescriptionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID := chi.URLParam(r, "id")
		if _, ok := s.data.prescriptions.get(prescriptionID); !ok {
			writeJSONError(w, http.StatusNotFound, "Prescription not found")
			return
		}
		var req clinicmodel.CreatePrescriptionItemRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f := fieldErrors{}
		validatePrescriptionItem("", req, f)
		if !f.empty() {
			writeValidationError(w, f)
			return
		}

		item := s.addItem(prescriptionID, req)
		s.record(r, actionUpdate, entityPrescription, prescriptionID, "Added "+item.MedicationName)
		writeJSON(w, http.StatusCreated, item)
	}
}

func (s *Server) UpdatePrescriptionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.CreatePrescriptionItemRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f := fieldErrors{}
		validatePrescriptionItem("", req, f)
		if !f.empty() {
			writeValidationError(w, f)
			return
		}

		row, ok := s.data.items.update(chi.URLParam(r, "itemId"), func(i *prescriptionItem) {
			i.PrescriptionItem = itemFromRequest(i.PrescriptionItem, req)
		})
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Prescription item not found")
			return
		}

		s.record(r, actionUpdate, entityPrescription, row.prescriptionID, "Updated "+row.MedicationName)
		writeJSON(w, http.StatusOK, row.PrescriptionItem)
	}
}

func (s *Server) DeletePrescriptionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemId")
		row, ok := s.data.items.get(itemID)
		if !ok || !s.data.items.remove(itemID) {
			writeJSONError(w, http.StatusNotFound, "Prescription item not found")
			return
		}
		s.record(r, actionUpdate, entityPrescription, row.prescriptionID, "Removed "+row.MedicationName)
		writeMessage(w, "Prescription item deleted successfully")
	}
}

func prescriptionFromRequest(p clinicmodel.Prescription, req clinicmodel.CreatePrescriptionRequest) clinicmodel.Prescription {
	p.PatientID = req.PatientID
	p.DoctorID = req.DoctorID
	p.PrescriptionDate = req.PrescriptionDate
	p.Notes = req.Notes
	return p
}

func itemFromRequest(i clinicmodel.PrescriptionItem, req clinicmodel.CreatePrescriptionItemRequest) clinicmodel.PrescriptionItem {
	i.MedicationName = req.MedicationName
	i.Dosage = req.Dosage
	i.Frequency = req.Frequency
	i.Duration = req.Duration
	i.Instructions = req.Instructions
	i.Quantity = req.Quantity
	return i
}
