package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"handraise/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	v := new(types.ValidationError)
	if username == "" {
		v.Add("username")
	}
	if email == "" {
		v.Add("email")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email (must be a valid address)")
	}
	if req.Password == "" {
		v.Add("password")
	} else if len(req.Password) < 8 {
		v.Add("password (must be at least 8 characters)")
	}

	role := types.UserRoleUser
	if req.Role != "" {
		role = types.UserRole(strings.TrimSpace(req.Role))
		if !role.Valid() {
			v.Add("role (must be one of admin, user, viewer)")
		}
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	// only an authenticated admin can mint another admin
	if role == types.UserRoleAdmin {
		caller, err := s.currentUser(r)
		if err != nil || !caller.IsAdmin() {
			s.respondError(w, types.ErrForbidden)
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.respondError(w, err)
		return
	}

	user := &types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.CreateUser(r.Context(), user); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"success": true, "user": user})
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}
	if !user.IsAdmin() {
		s.respondError(w, types.ErrForbidden)
		return
	}

	var params struct {
		Page  int `form:"page"`
		Limit int `form:"limit"`
	}
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondError(w, types.NewValidationError("query parameters could not be parsed"))
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = types.DefaultPageLimit
	}

	users, total, err := s.users.Users(r.Context(), params.Page, params.Limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list users")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": types.NewPagination(params.Page, params.Limit, total),
	})
}
