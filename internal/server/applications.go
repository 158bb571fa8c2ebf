package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"handraise/pkg/types"
)

type createApplicationRequest struct {
	JobID   string `json:"job_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Service) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	app := &types.JobApplication{
		JobID:          strings.TrimSpace(req.JobID),
		ApplicantName:  strings.TrimSpace(req.Name),
		ApplicantEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		Message:        strings.TrimSpace(req.Message),
	}

	v := new(types.ValidationError)
	if app.JobID == "" {
		v.Add("job_id")
	}
	if app.ApplicantName == "" {
		v.Add("name")
	}
	if app.ApplicantEmail == "" {
		v.Add("email")
	} else if _, err := mail.ParseAddress(app.ApplicantEmail); err != nil {
		v.Add("email (must be a valid address)")
	}
	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.apps.Apply(r.Context(), app); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"application": map[string]any{
			"id":         app.ID,
			"job_id":     app.JobID,
			"status":     app.Status,
			"created_at": app.CreatedAt,
		},
	})
}

func (s *Service) handleListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}

	var params types.ApplicationListParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondError(w, types.NewValidationError("query parameters could not be parsed"))
		return
	}
	params.Normalize()

	if params.Status != "" && !params.Status.Valid() {
		s.respondError(w, types.NewValidationError("status (must be one of pending, accepted, rejected, withdrawn)"))
		return
	}

	// non-admins may only list applications for a job they posted
	if !user.IsAdmin() {
		if params.JobID == "" {
			s.respondError(w, types.NewValidationError("job_id"))
			return
		}
		job, err := s.jobs.Job(r.Context(), params.JobID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		if job.PostedBy != user.ID {
			s.respondError(w, types.ErrForbidden)
			return
		}
	}

	apps, total, err := s.apps.Applications(r.Context(), params)
	if err != nil {
		s.logger.WithError(err).Error("failed to list applications")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"pagination":   types.NewPagination(params.Page, params.Limit, total),
	})
}

type updateApplicationRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *Service) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}

	var req updateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	v := new(types.ValidationError)
	if strings.TrimSpace(req.ID) == "" {
		v.Add("id")
	}
	status := types.ApplicationStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		v.Add("status (must be one of pending, accepted, rejected, withdrawn)")
	}
	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.apps.Application(r.Context(), req.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	job, err := s.jobs.Job(r.Context(), app.JobID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if job.PostedBy != user.ID && !user.IsAdmin() {
		s.respondError(w, types.ErrForbidden)
		return
	}

	if err := s.apps.UpdateStatus(r.Context(), req.ID, status); err != nil {
		s.logger.WithError(err).Error("failed to update application status")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

func (s *Service) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
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

	volunteers, total, err := s.apps.Volunteers(r.Context(), params.Page, params.Limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list volunteers")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"volunteers": volunteers,
		"pagination": types.NewPagination(params.Page, params.Limit, total),
	})
}
