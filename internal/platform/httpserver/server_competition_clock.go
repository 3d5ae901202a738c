package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	clockerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	clockhttp "spotlight/contexts/contest-engagement/competition-clock/transport/http"
)

func (s *Server) registerCompetitionRoutes() {
	s.handle("POST /v1/competitions", s.handleCreateCompetition)
	s.handle("GET /v1/competitions", s.handleListCompetitions)
	s.handle("GET /v1/competitions/{competition_id}", s.handleGetCompetition)
	s.handle("POST /v1/competitions/{competition_id}/phases", s.handleAddPhase)
	s.handle("POST /v1/competitions/{competition_id}/promotional-days", s.handleAddPromotionalDay)
	s.handle("GET /v1/competitions/{competition_id}/clock", s.handleCompetitionClock)
}

func writeClockError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, clockhttp.ErrorResponse{Code: code, Message: message})
}

func writeClockDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clockerrors.ErrInvalidCompetitionInput):
		writeClockError(w, http.StatusBadRequest, "invalid_competition", err.Error())
	case errors.Is(err, clockerrors.ErrInvalidTimezone):
		writeClockError(w, http.StatusBadRequest, "invalid_timezone", err.Error())
	case errors.Is(err, clockerrors.ErrInvalidPhaseWindow):
		writeClockError(w, http.StatusBadRequest, "invalid_phase_window", err.Error())
	case errors.Is(err, clockerrors.ErrInvalidPromotionalDate):
		writeClockError(w, http.StatusBadRequest, "invalid_promotional_date", err.Error())
	case errors.Is(err, clockerrors.ErrCompetitionNotFound):
		writeClockError(w, http.StatusNotFound, "competition_not_found", err.Error())
	case errors.Is(err, clockerrors.ErrCompetitionConflict):
		writeClockError(w, http.StatusConflict, "competition_conflict", err.Error())
	case errors.Is(err, clockerrors.ErrDependencyUnavailable):
		writeClockError(w, http.StatusFailedDependency, "dependency_unavailable", err.Error())
	default:
		writeClockError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	var req clockhttp.CreateCompetitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeClockError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.competitions.Handler.CreateCompetitionHandler(r.Context(), req)
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, createdOrReplayed(resp.Replayed), resp)
}

func (s *Server) handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.competitions.Handler.ListCompetitionsHandler(r.Context())
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCompetition(w http.ResponseWriter, r *http.Request) {
	resp, err := s.competitions.Handler.GetCompetitionHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddPhase(w http.ResponseWriter, r *http.Request) {
	var req clockhttp.PhaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeClockError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.competitions.Handler.AddPhaseHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddPromotionalDay(w http.ResponseWriter, r *http.Request) {
	var req clockhttp.AddPromotionalDayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeClockError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.competitions.Handler.AddPromotionalDayHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCompetitionClock(w http.ResponseWriter, r *http.Request) {
	var at time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeClockError(w, http.StatusBadRequest, "invalid_at", "at must be an RFC 3339 timestamp")
			return
		}
		at = parsed
	}
	resp, err := s.competitions.Handler.ClockHandler(r.Context(), r.PathValue("competition_id"), at)
	if err != nil {
		writeClockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
