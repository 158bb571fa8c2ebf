package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"handraise/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	username := strings.TrimSpace(req.Username)

	v := new(types.ValidationError)
	if username == "" {
		v.Add("username")
	}
	if req.Password == "" {
		v.Add("password")
	}
	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	// a username containing @ is treated as an email
	var user *types.User
	var err error
	if strings.Contains(username, "@") {
		user, err = s.users.UserByEmail(r.Context(), username)
	} else {
		user, err = s.users.UserByUsername(r.Context(), username)
	}
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondJSON(w, http.StatusUnauthorized, errorEnvelope{Error: "Invalid credentials"})
			return
		}
		s.logger.WithError(err).Error("failed to look up user")
		s.respondError(w, err)
		return
	}

	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.respondJSON(w, http.StatusUnauthorized, errorEnvelope{Error: "Invalid credentials"})
		return
	}

	ttl := time.Duration(s.config.SessionMaxAgeSec) * time.Second
	session, err := s.sessions.CreateSession(r.Context(), user.ID, ttl)
	if err != nil {
		s.logger.WithError(err).Error("failed to create session")
		s.respondError(w, err)
		return
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, session.Token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.config.SessionMaxAgeSec,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.Environment == "production",
	})

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.config.CookieName); err == nil {
		var token string
		if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &token); err == nil {
			if err := s.sessions.DeleteSession(r.Context(), token); err != nil {
				s.logger.WithError(err).Warn("failed to delete session row")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Service) handleSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": user})
}
