package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/rs/zerolog/log"
)

// demoDomain completes the bare usernames ("admin", "doctor") accepted by the login form.
const demoDomain = "@clinic.com"

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f := fieldErrors{}
		f.required("email", req.Email)
		f.required("password", req.Password)
		if !f.empty() {
			writeValidationError(w, f)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !strings.Contains(email, "@") {
			email += demoDomain
		}

		user, err := s.users.GetByEmail(email)
		if err != nil || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			log.Info().Str("email", email).Msg("login rejected")
			writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.IsActive {
			writeJSONError(w, http.StatusUnauthorized, "Account is inactive")
			return
		}

		signed, err := s.issuer.Issue(user)
		if err != nil {
			log.Err(err).Str("user", user.ID).Msg("failed to issue token")
			writeJSONError(w, http.StatusInternalServerError, "Unable to issue token")
			return
		}

		s.recordFor(user.ID, actionLogin, entityUser, user.ID, "User logged in")
		user.Token = signed
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) RegisterUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicmodel.RegisterUserRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateRegistration(req); !f.empty() {
			writeValidationError(w, f)
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to store password")
			return
		}
		now := NowTimeFunc().UTC()
		user := &users.User{
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Role:         req.Role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
			PasswordHash: hash,
		}
		if err := s.users.Upsert(user); err != nil {
			writeUpsertError(w, err)
			return
		}

		s.record(r, actionCreate, entityUser, user.ID, fmt.Sprintf("Registered %s as %s", user.Email, user.Role))
		writeJSON(w, http.StatusCreated, user)
	}
}

func writeUpsertError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.ErrEmailTaken) {
		writeJSONError(w, http.StatusConflict, "Email already registered")
		return
	}
	log.Err(err).Msg("failed to save user")
	writeJSONError(w, http.StatusInternalServerError, "Unable to save user")
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var role users.RoleType
		if raw := r.URL.Query().Get("role"); raw != "" {
			parsed, err := users.ParseRole(raw)
			if err != nil {
				writeValidationError(w, fieldErrors{"role": "must be a known role"})
				return
			}
			role = parsed
		}

		page, limit := pageParams(r)
		list, err := s.users.List(role, page, limit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to list users")
			return
		}
		resp := clinicmodel.UsersResponse{
			Users: make([]users.User, 0, len(list.Users)),
			Pagination: clinicmodel.Pagination{
				TotalPages:  list.TotalPages,
				CurrentPage: list.CurrentPage,
				Total:       list.Total,
			},
		}
		for _, u := range list.Users {
			resp.Users = append(resp.Users, *u)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) ListDoctorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := s.users.ListByRole(users.RoleDoctor)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to list doctors")
			return
		}
		out := make([]users.User, 0, len(doctors))
		for _, d := range doctors {
			if d.IsActive {
				out = append(out, *d)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	}
}

// selfOrAdmin writes a 403 and returns false unless the caller is the target user or an admin.
func selfOrAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	caller := currentUser(r)
	if caller.ID == userID || caller.IsAdmin() {
		return true
	}
	writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
	return false
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if !selfOrAdmin(w, r, userID) {
			return
		}
		user, err := s.users.GetByID(userID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if !selfOrAdmin(w, r, userID) {
			return
		}
		var req clinicmodel.UpdateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if f := validateUserUpdate(req); !f.empty() {
			writeValidationError(w, f)
			return
		}
		if (req.Role != "" || req.IsActive != nil) && !currentUser(r).IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Only administrators can change roles or account status")
			return
		}

		user, err := s.users.GetByID(userID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.Email != "" {
			user.Email = strings.ToLower(strings.TrimSpace(req.Email))
		}
		if req.Role != "" {
			user.Role = req.Role
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
		user.UpdatedAt = NowTimeFunc().UTC()
		if err := s.users.Upsert(user); err != nil {
			writeUpsertError(w, err)
			return
		}

		s.record(r, actionUpdate, entityUser, user.ID, "Updated user profile")
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if !selfOrAdmin(w, r, userID) {
			return
		}
		var req clinicmodel.UpdatePasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		user, err := s.users.GetByID(userID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}

		f := fieldErrors{}
		// Admins may reset another user's password without knowing the old one.
		if currentUser(r).ID == userID {
			f.required("currentPassword", req.CurrentPassword)
			f.check(users.CheckPasswordHash(req.CurrentPassword, user.PasswordHash), "currentPassword", "current password is incorrect")
		}
		if err := users.ValidatePasswordStrength(req.NewPassword); err != nil {
			f.add("newPassword", err.Error())
		}
		if !f.empty() {
			writeValidationError(w, f)
			return
		}

		hash, err := users.HashPassword(req.NewPassword)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to store password")
			return
		}
		user.PasswordHash = hash
		user.UpdatedAt = NowTimeFunc().UTC()
		if err := s.users.Upsert(user); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Unable to store password")
			return
		}

		s.record(r, actionUpdate, entityUser, user.ID, "Changed password")
		writeMessage(w, "Password updated successfully")
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if currentUser(r).ID == userID {
			writeJSONError(w, http.StatusBadRequest, "You cannot delete your own account")
			return
		}
		if err := s.users.Delete(userID); err != nil {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		s.record(r, actionDelete, entityUser, userID, "Deleted user")
		writeMessage(w, "User deleted successfully")
	}
}
