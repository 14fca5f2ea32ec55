package fakeapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
)

func (s *Server) LatestStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.data.latestStats())
	}
}

// GenerateStatsHandler recomputes the statistics from the current data.
func (s *Server) GenerateStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.generateStats()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to generate statistics")
			return
		}
		s.data.setStats(stats)
		s.record(r, actionCreate, entityStats, "", "Generated statistics")
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) generateStats() (clinicmodel.Stats, error) {
	all, err := s.users.ListByRole("")
	if err != nil {
		return clinicmodel.Stats{}, err
	}
	active := 0
	for _, u := range all {
		if u.IsActive {
			active++
		}
	}

	months := map[time.Time]*clinicmodel.MonthlyStats{}
	bucket := func(t time.Time) *clinicmodel.MonthlyStats {
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := months[key]
		if !ok {
			m = &clinicmodel.MonthlyStats{Month: key.Format("January 2006")}
			months[key] = m
		}
		return m
	}

	patients := s.data.patients.list(nil)
	for _, p := range patients {
		bucket(p.CreatedAt).Patients++
	}
	appointments := s.data.appointments.list(nil)
	for _, a := range appointments {
		bucket(a.CreatedAt).Appointments++
	}
	prescriptions := s.data.prescriptions.list(nil)
	for _, p := range prescriptions {
		bucket(p.CreatedAt).Prescriptions++
	}

	keys := make([]time.Time, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	stats := clinicmodel.Stats{
		TotalPatients:      len(patients),
		TotalAppointments:  len(appointments),
		TotalPrescriptions: len(prescriptions),
		ActiveUsers:        active,
		MonthlyStats:       make([]clinicmodel.MonthlyStats, 0, len(keys)),
	}
	for _, k := range keys {
		stats.MonthlyStats = append(stats.MonthlyStats, *months[k])
	}
	return stats, nil
}

// listActivityLogs pages the matching entries newest first.
func (s *Server) listActivityLogs(w http.ResponseWriter, r *http.Request, keep func(clinicmodel.ActivityLog) bool) {
	rows := s.data.logs.list(keep)
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	page, limit := pageParams(r)
	logs, pagination := paginate(rows, page, limit)
	writeJSON(w, http.StatusOK, clinicmodel.ActivityLogsResponse{Logs: logs, Pagination: pagination})
}

func (s *Server) ListActivityLogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.listActivityLogs(w, r, nil)
	}
}

func (s *Server) ActivityLogsByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		s.listActivityLogs(w, r, func(l clinicmodel.ActivityLog) bool { return l.UserID == userID })
	}
}

func (s *Server) ActivityLogsByEntityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType, entityID := chi.URLParam(r, "entityType"), chi.URLParam(r, "entityId")
		s.listActivityLogs(w, r, func(l clinicmodel.ActivityLog) bool {
			return l.EntityType == entityType && l.EntityID == entityID
		})
	}
}
