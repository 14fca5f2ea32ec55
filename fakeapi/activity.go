package fakeapi

import (
	"net/http"

	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/rs/zerolog/log"
)

// Entity types recorded in activity logs.
const (
	entityUser          = "user"
	entityPatient       = "patient"
	entityMedicalRecord = "medical_record"
	entityDiagnosis     = "diagnosis"
	entityAppointment   = "appointment"
	entityPrescription  = "prescription"
	entityStats         = "stats"
)

// Actions recorded in activity logs.
const (
	actionLogin  = "login"
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
	actionStatus = "status_change"
)

// record appends an activity log entry for the authenticated user of r.
func (s *Server) record(r *http.Request, action, entityType, entityID, details string) {
	userID := ""
	if u := currentUser(r); u != nil {
		userID = u.ID
	}
	s.recordFor(userID, action, entityType, entityID, details)
	log.Debug().
		Str("request_id", r.Header.Get(requestIDHeader)).
		Str("action", action).
		Str("entity", entityType+":"+entityID).
		Msg("activity recorded")
}

func (s *Server) recordFor(userID, action, entityType, entityID, details string) {
	s.data.logs.insert(func(id string) clinicmodel.ActivityLog {
		return clinicmodel.ActivityLog{
			ID:         id,
			UserID:     userID,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
			Timestamp:  NowTimeFunc().UTC(),
		}
	})
}
