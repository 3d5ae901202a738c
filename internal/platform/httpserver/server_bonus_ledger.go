package httpserver

import (
	"errors"
	"net/http"

	bonuserrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	bonushttp "spotlight/contexts/contest-engagement/bonus-ledger/transport/http"
)

func (s *Server) registerBonusRoutes() {
	s.handle("GET /v1/competitions/{competition_id}/bonus-tasks", s.handleListBonusCatalog)
	s.handle("PUT /v1/competitions/{competition_id}/bonus-tasks", s.handlePublishBonusCatalog)
	s.handle("PATCH /v1/competitions/{competition_id}/bonus-tasks/{task_key}", s.handleUpdateBonusTaskPoints)

	s.handle("GET /v1/contestants/{contestant_id}/bonus", s.handleBonusStatus)
	s.handle("POST /v1/contestants/{contestant_id}/bonus/awards", s.handleAwardBonus)
	s.handle("POST /v1/contestants/{contestant_id}/bonus/acknowledgements", s.handleAcknowledgeBonusTask)
	s.handle("POST /v1/contestants/{contestant_id}/bonus/profile-check", s.handleCheckProfileBonuses)
}

func writeBonusError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bonushttp.ErrorResponse{Code: code, Message: message})
}

func writeBonusDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bonuserrors.ErrInvalidInput):
		writeBonusError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, bonuserrors.ErrInvalidTask):
		writeBonusError(w, http.StatusBadRequest, "invalid_task", err.Error())
	case errors.Is(err, bonuserrors.ErrInvalidCatalog):
		writeBonusError(w, http.StatusBadRequest, "invalid_catalog", err.Error())
	case errors.Is(err, bonuserrors.ErrTaskNotSatisfied):
		writeBonusError(w, http.StatusUnprocessableEntity, "task_not_satisfied", err.Error())
	case errors.Is(err, bonuserrors.ErrTaskNotAcknowledgable):
		writeBonusError(w, http.StatusConflict, "task_not_acknowledgeable", err.Error())
	case errors.Is(err, bonuserrors.ErrContestantNotFound):
		writeBonusError(w, http.StatusNotFound, "contestant_not_found", err.Error())
	case errors.Is(err, bonuserrors.ErrDependencyUnavailable):
		writeBonusError(w, http.StatusFailedDependency, "dependency_unavailable", err.Error())
	default:
		writeBonusError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListBonusCatalog(w http.ResponseWriter, r *http.Request) {
	resp, err := s.bonus.Handler.ListCatalogHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublishBonusCatalog(w http.ResponseWriter, r *http.Request) {
	var req bonushttp.PublishCatalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBonusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bonus.Handler.PublishCatalogHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBonusTaskPoints(w http.ResponseWriter, r *http.Request) {
	var req bonushttp.UpdateTaskPointsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBonusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bonus.Handler.UpdateTaskPointsHandler(
		r.Context(),
		r.PathValue("competition_id"),
		r.PathValue("task_key"),
		req,
	)
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBonusStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.bonus.Handler.StatusHandler(r.Context(), r.PathValue("contestant_id"))
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAwardBonus answers 200 for both a fresh award and an already-awarded
// task; the body's success flag tells them apart.
func (s *Server) handleAwardBonus(w http.ResponseWriter, r *http.Request) {
	var req bonushttp.AwardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBonusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bonus.Handler.AwardHandler(r.Context(), r.PathValue("contestant_id"), req)
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcknowledgeBonusTask(w http.ResponseWriter, r *http.Request) {
	var req bonushttp.AwardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBonusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bonus.Handler.AcknowledgeHandler(r.Context(), r.PathValue("contestant_id"), req)
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckProfileBonuses(w http.ResponseWriter, r *http.Request) {
	var req bonushttp.CheckProfileRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeBonusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bonus.Handler.CheckProfileHandler(r.Context(), r.PathValue("contestant_id"), req)
	if err != nil {
		writeBonusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
