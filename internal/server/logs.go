package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"handraise/pkg/types"
)

type partnershipEventRequest struct {
	Date       string `json:"date"`
	Site       string `json:"site"`
	Hours      any    `json:"hours"`
	Volunteers any    `json:"volunteers"`
}

type createPartnershipLogRequest struct {
	Organization string                    `json:"organization"`
	ContactName  string                    `json:"contact_name"`
	ContactEmail string                    `json:"contact_email"`
	Notes        string                    `json:"notes"`
	Events       []partnershipEventRequest `json:"events"`
}

func (s *Service) handleCreatePartnershipLog(w http.ResponseWriter, r *http.Request) {
	var req createPartnershipLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	log := &types.PartnershipLog{
		Organization: strings.TrimSpace(req.Organization),
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		Notes:        strings.TrimSpace(req.Notes),
	}

	v := new(types.ValidationError)
	if log.Organization == "" {
		v.Add("organization")
	}
	if log.ContactName == "" {
		v.Add("contact_name")
	}
	if len(req.Events) == 0 {
		v.Add("events (at least one required)")
	}

	// each event is validated on its own; failures carry the element index
	for i, event := range req.Events {
		parsed := types.PartnershipEvent{
			EventDate: strings.TrimSpace(event.Date),
			Site:      strings.TrimSpace(event.Site),
		}

		if parsed.EventDate == "" {
			v.Addf("events[%d].date", i)
		}
		if parsed.Site == "" {
			v.Addf("events[%d].site", i)
		}

		if event.Hours == nil {
			v.Addf("events[%d].hours", i)
		} else if hours, ok := coerceFloat(event.Hours); !ok || hours < 0 {
			v.Addf("events[%d].hours (must be a number >= 0)", i)
		} else {
			parsed.Hours = hours
		}

		if event.Volunteers == nil {
			v.Addf("events[%d].volunteers", i)
		} else if volunteers, ok := coerceInt(event.Volunteers); !ok || volunteers < 0 {
			v.Addf("events[%d].volunteers (must be a whole number >= 0)", i)
		} else {
			parsed.Volunteers = volunteers
		}

		log.Events = append(log.Events, parsed)
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.logs.CreatePartnershipLog(r.Context(), log); err != nil {
		s.logger.WithError(err).Error("failed to create partnership log")
		s.respondError(w, err)
		return
	}

	log.TotalHours = types.SumEventHours(log.Events)

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"log":         map[string]any{"id": log.ID, "created_at": log.CreatedAt},
		"total_hours": log.TotalHours,
	})
}

type activityEntryRequest struct {
	Date         string `json:"date"`
	Activity     string `json:"activity"`
	Organization string `json:"organization"`
	Hours        any    `json:"hours"`
	Description  string `json:"description"`
}

type createActivityLogRequest struct {
	SubmitterName  string                 `json:"submitter_name"`
	SubmitterEmail string                 `json:"submitter_email"`
	Activities     []activityEntryRequest `json:"activities"`
}

func (s *Service) handleCreateActivityLog(w http.ResponseWriter, r *http.Request) {
	var req createActivityLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.NewValidationError("request body must be valid JSON"))
		return
	}

	log := &types.ActivityLog{
		SubmitterName:  strings.TrimSpace(req.SubmitterName),
		SubmitterEmail: strings.ToLower(strings.TrimSpace(req.SubmitterEmail)),
	}

	v := new(types.ValidationError)
	if log.SubmitterName == "" {
		v.Add("submitter_name")
	}
	if len(req.Activities) == 0 {
		v.Add("activities (at least one required)")
	}

	for i, entry := range req.Activities {
		parsed := types.ActivityEntry{
			EntryDate:    strings.TrimSpace(entry.Date),
			Activity:     strings.TrimSpace(entry.Activity),
			Organization: strings.TrimSpace(entry.Organization),
			Description:  strings.TrimSpace(entry.Description),
		}

		if parsed.EntryDate == "" {
			v.Addf("activities[%d].date", i)
		}
		if parsed.Activity == "" {
			v.Addf("activities[%d].activity", i)
		}

		if entry.Hours == nil {
			v.Addf("activities[%d].hours", i)
		} else if hours, ok := coerceFloat(entry.Hours); !ok || hours < 0 {
			v.Addf("activities[%d].hours (must be a number >= 0)", i)
		} else {
			parsed.Hours = hours
		}

		log.Entries = append(log.Entries, parsed)
	}

	if err := v.OrNil(); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.logs.CreateActivityLog(r.Context(), log); err != nil {
		s.logger.WithError(err).Error("failed to create activity log")
		s.respondError(w, err)
		return
	}

	log.TotalHours = types.SumEntryHours(log.Entries)

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"log":         map[string]any{"id": log.ID, "created_at": log.CreatedAt},
		"total_hours": log.TotalHours,
	})
}
