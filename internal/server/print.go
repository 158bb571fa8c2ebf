package server

import (
	"net/http"

	"github.com/alexedwards/flow"
)

// The print routes render a stored log as a standalone HTML document meant
// for the browser's print-to-PDF flow.

func (s *Service) handlePrintPartnershipLog(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	log, err := s.logs.PartnershipLog(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "print.partnership", log); err != nil {
		s.logger.WithError(err).Error("failed to render partnership print form")
	}
}

func (s *Service) handlePrintActivityLog(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	log, err := s.logs.ActivityLog(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "print.activity", log); err != nil {
		s.logger.WithError(err).Error("failed to render activity print form")
	}
}
