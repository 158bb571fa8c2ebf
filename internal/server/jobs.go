package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"handraise/internal/catalog"
	"handraise/pkg/types"

	"github.com/alexedwards/flow"
)

const defaultJobLifetime = 30 * 24 * time.Hour

func (s *Service) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var params types.JobSearchParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.respondError(w, types.NewValidationError("query parameters could not be parsed"))
		return
	}
	params.Normalize()

	jobs, total, err := s.jobs.Search(r.Context(), params)
	if err != nil {
		s.logger.WithError(err).Error("failed to search jobs")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"jobs":       jobs,
		"pagination": types.NewPagination(params.Page, params.Limit, total),
	})
}

type createJobRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Skills           string `json:"skills"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zipcode          string `json:"zipcode"`
	Latitude         any    `json:"latitude"`
	Longitude        any    `json:"longitude"`
	VolunteersNeeded any    `json:"volunteers_needed"`
	Urgency          any    `json:"urgency"`
	ExpiresAt        string `json:"expires_at"`
}

func (s *Service) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	job := &types.Job{
		PostedBy:    user.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Skills:      strings.TrimSpace(req.Skills),
		JobLocation: types.JobLocation{
			Address: strings.TrimSpace(req.Address),
			City:    strings.TrimSpace(req.City),
			State:   strings.TrimSpace(req.State),
			Zipcode: strings.TrimSpace(req.Zipcode),
		},
		Status:  types.JobStatusActive,
		Urgency: 0,
	}

	v := new(types.ValidationError)
	if job.Title == "" {
		v.Add("title")
	}
	if job.Description == "" {
		v.Add("description")
	}
	if job.Category == "" {
		v.Add("category")
	} else if !catalog.IsValidValue(job.Category) {
		v.Addf("category (unknown value %q)", job.Category)
	}
	if job.Zipcode == "" {
		v.Add("zipcode")
	}

	if req.VolunteersNeeded == nil {
		v.Add("volunteers_needed")
	} else if n, ok := coerceInt(req.VolunteersNeeded); !ok || n < 1 {
		v.Add("volunteers_needed (must be a whole number >= 1)")
	} else {
		job.VolunteersNeeded = n
	}

	if req.Urgency != nil {
		if n, ok := coerceInt(req.Urgency); ok {
			job.Urgency = n
		} else {
			v.Add("urgency (must be a whole number)")
		}
	}

	if req.Latitude != nil {
		if f, ok := coerceFloat(req.Latitude); ok {
			job.Latitude = &f
		} else {
			v.Add("latitude (must be a number)")
		}
	}
	if req.Longitude != nil {
		if f, ok := coerceFloat(req.Longitude); ok {
			job.Longitude = &f
		} else {
			v.Add("longitude (must be a number)")
		}
	}

	if req.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			v.Add("expires_at (must be RFC 3339)")
		} else {
			job.ExpiresAt = expires
		}
	} else {
		job.ExpiresAt = time.Now().Add(defaultJobLifetime)
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.jobs.CreateJob(r.Context(), job); err != nil {
		s.logger.WithError(err).Error("failed to create job")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"job": map[string]any{
			"id":         job.ID,
			"title":      job.Title,
			"created_at": job.CreatedAt,
		},
	})
}

func (s *Service) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := flow.Param(r.Context(), "id")

	listing, err := s.jobs.JobListing(r.Context(), jobID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	response := map[string]any{"job": listing}

	// the application list is gated: only the poster or an admin sees it
	if r.URL.Query().Get("include_applications") == "true" {
		user, err := s.currentUser(r)
		if err != nil {
			s.respondError(w, types.ErrNoSession)
			return
		}
		if user.ID != listing.PostedBy && !user.IsAdmin() {
			s.respondError(w, types.ErrForbidden)
			return
		}

		applications, err := s.apps.ApplicationsByJob(r.Context(), jobID)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch applications")
			s.respondError(w, err)
			return
		}
		response["applications"] = applications
	}

	s.respondJSON(w, http.StatusOK, response)
}

// updatableJobFields is the partial-update allow-list; anything outside it is
// silently ignored.
var updatableJobFields = map[string]struct{}{
	"title":             {},
	"description":       {},
	"category":          {},
	"skills":            {},
	"address":           {},
	"city":              {},
	"state":             {},
	"zipcode":           {},
	"latitude":          {},
	"longitude":         {},
	"volunteers_needed": {},
	"status":            {},
	"urgency":           {},
	"expires_at":        {},
}

func (s *Service) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID := flow.Param(r.Context(), "id")

	if _, err := s.authorizeJobMutation(w, r, jobID); err != nil {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	fields := make(map[string]any)
	v := new(types.ValidationError)

	for key, raw := range body {
		if _, allowed := updatableJobFields[key]; !allowed {
			continue
		}

		switch key {
		case "title", "description", "category", "skills", "address", "city", "state", "zipcode":
			str, ok := raw.(string)
			if !ok {
				v.Addf("%s (must be a string)", key)
				continue
			}
			str = strings.TrimSpace(str)
			if key == "category" && !catalog.IsValidValue(str) {
				v.Addf("category (unknown value %q)", str)
				continue
			}
			fields[key] = str

		case "volunteers_needed":
			n, ok := coerceInt(raw)
			if !ok || n < 1 {
				v.Add("volunteers_needed (must be a whole number >= 1)")
				continue
			}
			fields[key] = n

		case "urgency":
			n, ok := coerceInt(raw)
			if !ok {
				v.Add("urgency (must be a whole number)")
				continue
			}
			fields[key] = n

		case "latitude", "longitude":
			if raw == nil {
				fields[key] = nil
				continue
			}
			f, ok := coerceFloat(raw)
			if !ok {
				v.Addf("%s (must be a number)", key)
				continue
			}
			fields[key] = f

		case "status":
			str, _ := raw.(string)
			status := types.JobStatus(strings.TrimSpace(str))
			if !status.Valid() {
				v.Addf("status (must be one of active, filled, expired, cancelled)")
				continue
			}
			fields[key] = status

		case "expires_at":
			str, _ := raw.(string)
			expires, err := time.Parse(time.RFC3339, str)
			if err != nil {
				v.Add("expires_at (must be RFC 3339)")
				continue
			}
			fields[key] = expires
		}
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if len(fields) == 0 {
		s.respondError(w, types.NewValidationError("no valid fields to update"))
		return
	}

	if err := s.jobs.UpdateJobFields(r.Context(), jobID, fields); err != nil {
		s.logger.WithError(err).Error("failed to update job")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Service) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := flow.Param(r.Context(), "id")

	if _, err := s.authorizeJobMutation(w, r, jobID); err != nil {
		return
	}

	if err := s.jobs.DeleteJob(r.Context(), jobID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// authorizeJobMutation loads the job and enforces poster-or-admin. On failure
// it writes the response itself and returns the error as a signal.
func (s *Service) authorizeJobMutation(w http.ResponseWriter, r *http.Request, jobID string) (*types.Job, error) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return nil, types.ErrNoSession
	}

	job, err := s.jobs.Job(r.Context(), jobID)
	if err != nil {
		s.respondError(w, err)
		return nil, err
	}

	if job.PostedBy != user.ID && !user.IsAdmin() {
		s.respondError(w, types.ErrForbidden)
		return nil, types.ErrForbidden
	}

	return job, nil
}
