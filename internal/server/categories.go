package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"handraise/internal/catalog"
	"handraise/pkg/types"
)

// handleListCategories returns the active database taxonomy plus the static
// catalog options a job's category field accepts.
func (s *Service) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		categories []*types.JobCategory
		err        error
	)

	if r.URL.Query().Get("all") == "true" {
		user, authErr := s.currentUser(r)
		if authErr != nil {
			s.respondError(w, types.ErrNoSession)
			return
		}
		if !user.IsAdmin() {
			s.respondError(w, types.ErrForbidden)
			return
		}
		categories, err = s.categories.AllCategories(r.Context())
	} else {
		categories, err = s.categories.ActiveCategories(r.Context())
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list categories")
		s.respondError(w, err)
		return
	}

	options := make([]map[string]string, 0)
	for _, opt := range catalog.Flatten() {
		options = append(options, map[string]string{"value": opt.Value, "label": opt.Label})
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"taxonomy":   options,
	})
}

type createCategoryRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	DisplayOrder any    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (s *Service) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}
	if !user.IsAdmin() {
		s.respondError(w, types.ErrForbidden)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	category := &types.JobCategory{
		Name:     strings.TrimSpace(req.Name),
		Type:     types.CategoryTypeVolunteer,
		IsActive: true,
	}

	v := new(types.ValidationError)
	if category.Name == "" {
		v.Add("name")
	}
	if req.Type != "" {
		category.Type = types.CategoryType(strings.TrimSpace(req.Type))
		if !category.Type.Valid() {
			v.Add("type (must be volunteer or requester)")
		}
	}
	if req.DisplayOrder != nil {
		n, ok := coerceInt(req.DisplayOrder)
		if !ok {
			v.Add("display_order (must be a whole number)")
		} else {
			category.DisplayOrder = n
		}
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.categories.CreateCategory(r.Context(), category); err != nil {
		s.logger.WithError(err).Error("failed to create category")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"success": true, "category": category})
}

var updatableCategoryFields = map[string]struct{}{
	"name":          {},
	"type":          {},
	"display_order": {},
	"is_active":     {},
}

func (s *Service) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, types.ErrNoSession)
		return
	}
	if !user.IsAdmin() {
		s.respondError(w, types.ErrForbidden)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	id, _ := body["id"].(string)
	if strings.TrimSpace(id) == "" {
		s.respondError(w, types.NewValidationError("id"))
		return
	}

	fields := make(map[string]any)
	v := new(types.ValidationError)

	for key, raw := range body {
		if _, allowed := updatableCategoryFields[key]; !allowed {
			continue
		}

		switch key {
		case "name":
			str, ok := raw.(string)
			if !ok || strings.TrimSpace(str) == "" {
				v.Add("name (must be a non-empty string)")
				continue
			}
			fields[key] = strings.TrimSpace(str)

		case "type":
			str, _ := raw.(string)
			categoryType := types.CategoryType(strings.TrimSpace(str))
			if !categoryType.Valid() {
				v.Add("type (must be volunteer or requester)")
				continue
			}
			fields[key] = categoryType

		case "display_order":
			n, ok := coerceInt(raw)
			if !ok {
				v.Add("display_order (must be a whole number)")
				continue
			}
			fields[key] = n

		case "is_active":
			b, ok := raw.(bool)
			if !ok {
				v.Add("is_active (must be a boolean)")
				continue
			}
			fields[key] = b
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

	if err := s.categories.UpdateCategoryFields(r.Context(), id, fields); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
