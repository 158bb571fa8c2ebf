package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"handraise/pkg/types"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps every error to its HTTP status and a structured envelope.
// Persistence failures surface their message in details but never a stack.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	var validation *types.ValidationError
	if errors.As(err, &validation) {
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:   "Missing or invalid fields",
			Details: err.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, types.ErrNoSession):
		s.respondJSON(w, http.StatusUnauthorized, errorEnvelope{Error: "Authentication required"})

	case errors.Is(err, types.ErrForbidden):
		s.respondJSON(w, http.StatusForbidden, errorEnvelope{Error: "Insufficient permissions"})

	case errors.Is(err, types.ErrJobNotFound),
		errors.Is(err, types.ErrApplicationNotFound),
		errors.Is(err, types.ErrUserNotFound),
		errors.Is(err, types.ErrLogNotFound),
		errors.Is(err, types.ErrCategoryNotFound):
		s.respondJSON(w, http.StatusNotFound, errorEnvelope{Error: err.Error()})

	case errors.Is(err, types.ErrDuplicateApplication),
		errors.Is(err, types.ErrDuplicateUser),
		errors.Is(err, types.ErrJobHasAcceptedApplications):
		s.respondJSON(w, http.StatusConflict, errorEnvelope{Error: err.Error()})

	case errors.Is(err, types.ErrJobNotActive),
		errors.Is(err, types.ErrJobExpired):
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: err.Error()})

	default:
		s.respondJSON(w, http.StatusInternalServerError, persistenceEnvelope(err))
	}
}

// persistenceEnvelope special-cases recognizable database failure text into
// actionable messages.
func persistenceEnvelope(err error) errorEnvelope {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "does not exist") && strings.Contains(msg, "relation"):
		return errorEnvelope{
			Error:   "Database schema is missing",
			Details: "run GET /migrate to create tables, then retry",
		}
	case strings.Contains(msg, "duplicate key"):
		return errorEnvelope{
			Error:   "Duplicate entry",
			Details: msg,
		}
	default:
		return errorEnvelope{
			Error:   "Internal server error",
			Details: msg,
		}
	}
}
