package server_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"handraise/pkg/types"
)

// addJob plants a job directly in the fake store.
func (e *testEnv) addJob(t *testing.T, postedBy string, status types.JobStatus, expiresAt time.Time) *types.Job {
	t.Helper()

	job := &types.Job{
		PostedBy:         postedBy,
		Title:            "Food bank shift",
		Description:      "Sort and shelve donations",
		Category:         "community-support",
		JobLocation:      types.JobLocation{Zipcode: "80202"},
		VolunteersNeeded: 2,
		Status:           status,
		ExpiresAt:        expiresAt,
	}
	if err := e.jobs.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestListJobsPagination(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.searchOut = []*types.JobListing{
		{Job: types.Job{ID: "job-1", Title: "Food bank shift", Status: types.JobStatusActive}},
	}
	env.jobs.searchTot = 45

	status, body := env.do(t, http.MethodGet, "/jobs?category=all", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}

	pagination, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("response missing pagination: %v", body)
	}
	if pagination["page"] != float64(1) || pagination["limit"] != float64(20) {
		t.Errorf("expected page 1 limit 20, got %v / %v", pagination["page"], pagination["limit"])
	}
	if pagination["total"] != float64(45) || pagination["totalPages"] != float64(3) {
		t.Errorf("expected total 45 totalPages 3, got %v / %v", pagination["total"], pagination["totalPages"])
	}
	if pagination["hasNext"] != true || pagination["hasPrev"] != false {
		t.Errorf("expected hasNext true hasPrev false, got %v / %v", pagination["hasNext"], pagination["hasPrev"])
	}

	// "all" is a UI sentinel, the store should see no category filter
	if env.jobs.lastSearch.Category != "" {
		t.Errorf("category %q reached the store, expected empty", env.jobs.lastSearch.Category)
	}
	if env.jobs.lastSearch.Distance != types.DefaultSearchDistance {
		t.Errorf("expected default distance, got %v", env.jobs.lastSearch.Distance)
	}
}

func TestCreateJobRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "x"}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", status)
	}
}

func TestCreateJobValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	cookie := env.login(t, "poster", "poster-password")

	status, body := env.do(t, http.MethodPost, "/jobs", map[string]any{}, cookie)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}

	details, _ := body["details"].(string)
	for _, field := range []string{"title", "description", "category", "zipcode", "volunteers_needed"} {
		if !strings.Contains(details, field) {
			t.Errorf("details missing %q: %s", field, details)
		}
	}
}

func TestCreateJob(t *testing.T) {
	env := newTestEnv(t)
	poster := env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	cookie := env.login(t, "poster", "poster-password")

	payload := map[string]any{
		"title":             "Trail cleanup lead",
		"description":       "Coordinate a Saturday cleanup crew",
		"category":          "environment",
		"zipcode":           "80301",
		"volunteers_needed": 5,
		"urgency":           "2",
	}
	status, body := env.do(t, http.MethodPost, "/jobs", payload, cookie)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %v", status, body)
	}

	created, _ := body["job"].(map[string]any)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("response missing job id: %v", body)
	}

	stored := env.jobs.jobs[id]
	if stored == nil {
		t.Fatal("job not persisted")
	}
	if stored.PostedBy != poster.ID {
		t.Errorf("posted_by = %q, expected %q", stored.PostedBy, poster.ID)
	}
	if stored.VolunteersNeeded != 5 || stored.Urgency != 2 {
		t.Errorf("numeric coercion failed: needed=%d urgency=%d", stored.VolunteersNeeded, stored.Urgency)
	}
	// default lifetime is 30 days
	if remaining := time.Until(stored.ExpiresAt); remaining < 29*24*time.Hour {
		t.Errorf("default expiry too soon: %v", remaining)
	}
}

func TestUpdateJobOwnership(t *testing.T) {
	env := newTestEnv(t)
	poster := env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	env.addUser(t, "other", types.UserRoleUser, "other-password")
	env.addUser(t, "root", types.UserRoleAdmin, "admin-password")

	job := env.addJob(t, poster.ID, types.JobStatusActive, time.Now().Add(24*time.Hour))
	payload := map[string]any{"title": "Updated title"}

	otherCookie := env.login(t, "other", "other-password")
	status, _ := env.do(t, http.MethodPut, "/jobs/"+job.ID, payload, otherCookie)
	if status != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403 got %d", status)
	}

	adminCookie := env.login(t, "root", "admin-password")
	status, _ = env.do(t, http.MethodPut, "/jobs/"+job.ID, payload, adminCookie)
	if status != http.StatusOK {
		t.Fatalf("admin update: expected 200 got %d", status)
	}
	if env.jobs.jobs[job.ID].Title != "Updated title" {
		t.Errorf("title not updated: %q", env.jobs.jobs[job.ID].Title)
	}
}

func TestUpdateJobIgnoresUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	poster := env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	cookie := env.login(t, "poster", "poster-password")
	job := env.addJob(t, poster.ID, types.JobStatusActive, time.Now().Add(24*time.Hour))

	// only unknown keys: nothing valid remains
	status, body := env.do(t, http.MethodPut, "/jobs/"+job.ID, map[string]any{"bogus": "x"}, cookie)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
	if details, _ := body["details"].(string); !strings.Contains(details, "no valid fields") {
		t.Errorf("unexpected details: %q", details)
	}

	// unknown keys alongside valid ones are dropped silently
	status, _ = env.do(t, http.MethodPut, "/jobs/"+job.ID,
		map[string]any{"bogus": "x", "title": "Kept"}, cookie)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	if env.jobs.jobs[job.ID].Title != "Kept" {
		t.Errorf("title not updated: %q", env.jobs.jobs[job.ID].Title)
	}
}

func TestDeleteJobWithAcceptedApplications(t *testing.T) {
	env := newTestEnv(t)
	poster := env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	cookie := env.login(t, "poster", "poster-password")
	job := env.addJob(t, poster.ID, types.JobStatusActive, time.Now().Add(24*time.Hour))

	env.jobs.deleteErr = types.ErrJobHasAcceptedApplications
	status, _ := env.do(t, http.MethodDelete, "/jobs/"+job.ID, nil, cookie)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 got %d", status)
	}

	env.jobs.deleteErr = nil
	status, _ = env.do(t, http.MethodDelete, "/jobs/"+job.ID, nil, cookie)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	if _, exists := env.jobs.jobs[job.ID]; exists {
		t.Error("job still present after delete")
	}
}

func TestGetJobApplicationsGated(t *testing.T) {
	env := newTestEnv(t)
	poster := env.addUser(t, "poster", types.UserRoleUser, "poster-password")
	env.addUser(t, "other", types.UserRoleUser, "other-password")
	job := env.addJob(t, poster.ID, types.JobStatusActive, time.Now().Add(24*time.Hour))

	// the detail itself is public
	status, body := env.do(t, http.MethodGet, "/jobs/"+job.ID, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("public detail: expected 200 got %d", status)
	}
	if _, present := body["applications"]; present {
		t.Error("applications leaked without include_applications")
	}

	gated := "/jobs/" + job.ID + "?include_applications=true"

	status, _ = env.do(t, http.MethodGet, gated, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous gated view: expected 401 got %d", status)
	}

	otherCookie := env.login(t, "other", "other-password")
	status, _ = env.do(t, http.MethodGet, gated, nil, otherCookie)
	if status != http.StatusForbidden {
		t.Fatalf("non-owner gated view: expected 403 got %d", status)
	}

	posterCookie := env.login(t, "poster", "poster-password")
	status, body = env.do(t, http.MethodGet, gated, nil, posterCookie)
	if status != http.StatusOK {
		t.Fatalf("owner gated view: expected 200 got %d", status)
	}
	if _, present := body["applications"]; !present {
		t.Error("owner response missing applications")
	}
}
