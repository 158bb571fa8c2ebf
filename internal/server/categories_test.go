package server_test

import (
	"context"
	"net/http"
	"testing"

	"handraise/pkg/types"
)

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)

	active := &types.JobCategory{Name: "Community Support", Type: types.CategoryTypeVolunteer, IsActive: true}
	retired := &types.JobCategory{Name: "Retired", Type: types.CategoryTypeVolunteer, IsActive: false}
	for _, c := range []*types.JobCategory{active, retired} {
		if err := env.categories.CreateCategory(context.Background(), c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	status, body := env.do(t, http.MethodGet, "/categories", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}

	categories, _ := body["categories"].([]any)
	if len(categories) != 1 {
		t.Errorf("expected only the active category, got %d", len(categories))
	}

	// static taxonomy options ride along for job forms
	taxonomy, _ := body["taxonomy"].([]any)
	if len(taxonomy) == 0 {
		t.Error("response missing taxonomy options")
	}
}

func TestListAllCategoriesAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "sam", types.UserRoleUser, "sam-password")
	env.addUser(t, "root", types.UserRoleAdmin, "admin-password")

	status, _ := env.do(t, http.MethodGet, "/categories?all=true", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401 got %d", status)
	}

	samCookie := env.login(t, "sam", "sam-password")
	status, _ = env.do(t, http.MethodGet, "/categories?all=true", nil, samCookie)
	if status != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403 got %d", status)
	}

	adminCookie := env.login(t, "root", "admin-password")
	status, _ = env.do(t, http.MethodGet, "/categories?all=true", nil, adminCookie)
	if status != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d", status)
	}
}

func TestMutateCategoriesAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "sam", types.UserRoleUser, "sam-password")
	env.addUser(t, "root", types.UserRoleAdmin, "admin-password")

	samCookie := env.login(t, "sam", "sam-password")
	status, _ := env.do(t, http.MethodPost, "/categories", map[string]any{"name": "New"}, samCookie)
	if status != http.StatusForbidden {
		t.Fatalf("non-admin create: expected 403 got %d", status)
	}

	adminCookie := env.login(t, "root", "admin-password")
	status, body := env.do(t, http.MethodPost, "/categories", map[string]any{
		"name":          "Animal Care",
		"type":          "volunteer",
		"display_order": 7,
	}, adminCookie)
	if status != http.StatusCreated {
		t.Fatalf("admin create: expected 201 got %d: %v", status, body)
	}
	id, _ := body["category"].(map[string]any)["id"].(string)
	if id == "" {
		t.Fatal("response missing category id")
	}

	status, _ = env.do(t, http.MethodPut, "/categories", map[string]any{
		"id":        id,
		"is_active": false,
	}, adminCookie)
	if status != http.StatusOK {
		t.Fatalf("admin update: expected 200 got %d", status)
	}

	// id plus only unknown keys
	status, _ = env.do(t, http.MethodPut, "/categories", map[string]any{
		"id":    id,
		"bogus": "x",
	}, adminCookie)
	if status != http.StatusBadRequest {
		t.Fatalf("no valid fields: expected 400 got %d", status)
	}
}
