package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jrsteele09/clinic-console/clinicmodel"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1 << 20 // Keeps (page-1)*limit far from overflowing
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeValidationError(w http.ResponseWriter, fields fieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  fields,
	})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, clinicmodel.MessageResponse{Message: message})
}

// decodeBody writes a 400 and returns false when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageParams reads page and limit, falling back to the defaults for missing
// or malformed values.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = min(p, maxPage)
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxLimit)
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) ([]T, clinicmodel.Pagination) {
	total := len(items)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return items[start:end], clinicmodel.Pagination{
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
		Total:       total,
	}
}
