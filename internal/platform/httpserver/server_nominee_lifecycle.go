package httpserver

import (
	"errors"
	"net/http"

	bonushttp "spotlight/contexts/contest-engagement/bonus-ledger/transport/http"
	nomineeerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	nomineehttp "spotlight/contexts/contest-engagement/nominee-lifecycle/transport/http"
)

func (s *Server) registerNomineeRoutes() {
	s.handle("POST /v1/competitions/{competition_id}/nominees", s.handleSubmitNomination)
	s.handle("GET /v1/competitions/{competition_id}/nominees", s.handleListNominees)
	s.handle("GET /v1/nominees/{nominee_id}", s.handleGetNominee)
	s.handle("GET /v1/nominees/{nominee_id}/history", s.handleNomineeHistory)
	s.handle("POST /v1/nominees/{nominee_id}/decision", s.handleDecideNomination)
	s.handle("POST /v1/nominees/{nominee_id}/decline", s.handleDeclineNomination)
	s.handle("POST /v1/nominees/{nominee_id}/claim", s.handleClaimNominee)
	s.handle("PUT /v1/nominees/{nominee_id}/profile", s.handleUpdateNomineeProfile)
	s.handle("POST /v1/nominees/{nominee_id}/profile/complete", s.handleCompleteProfile)
	s.handle("POST /v1/nominees/{nominee_id}/convert", s.handleConvertNominee)

	s.handle("GET /v1/competitions/{competition_id}/contestants", s.handleListContestants)
	s.handle("GET /v1/contestants/{contestant_id}", s.handleGetContestant)
	s.handle("PUT /v1/contestants/{contestant_id}/profile", s.handleUpdateContestantProfile)
}

// contestantProfileResponse reports the profile bonuses unlocked by an edit.
type contestantProfileResponse struct {
	nomineehttp.ContestantResponse
	BonusAwards []bonushttp.AwardResponse `json:"bonus_awards"`
}

func writeNomineeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, nomineehttp.ErrorResponse{Code: code, Message: message})
}

func writeNomineeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nomineeerrors.ErrInvalidNominationInput):
		writeNomineeError(w, http.StatusBadRequest, "invalid_nomination", err.Error())
	case errors.Is(err, nomineeerrors.ErrInvalidContact):
		writeNomineeError(w, http.StatusBadRequest, "invalid_contact", err.Error())
	case errors.Is(err, nomineeerrors.ErrIncompleteProfile):
		writeNomineeError(w, http.StatusUnprocessableEntity, "incomplete_profile", err.Error())
	case errors.Is(err, nomineeerrors.ErrCompetitionNotFound):
		writeNomineeError(w, http.StatusNotFound, "competition_not_found", err.Error())
	case errors.Is(err, nomineeerrors.ErrNomineeNotFound):
		writeNomineeError(w, http.StatusNotFound, "nominee_not_found", err.Error())
	case errors.Is(err, nomineeerrors.ErrContestantNotFound):
		writeNomineeError(w, http.StatusNotFound, "contestant_not_found", err.Error())
	case errors.Is(err, nomineeerrors.ErrDuplicateEntry):
		writeNomineeError(w, http.StatusConflict, "duplicate_entry", err.Error())
	case errors.Is(err, nomineeerrors.ErrForbiddenTransition):
		writeNomineeError(w, http.StatusConflict, "forbidden_transition", err.Error())
	case errors.Is(err, nomineeerrors.ErrAlreadyClaimed):
		writeNomineeError(w, http.StatusConflict, "already_claimed", err.Error())
	case errors.Is(err, nomineeerrors.ErrStaleNominee):
		writeNomineeError(w, http.StatusConflict, "stale_nominee", err.Error())
	case errors.Is(err, nomineeerrors.ErrInvalidClaimToken):
		writeNomineeError(w, http.StatusForbidden, "invalid_claim_token", err.Error())
	case errors.Is(err, nomineeerrors.ErrDependencyUnavailable):
		writeNomineeError(w, http.StatusFailedDependency, "dependency_unavailable", err.Error())
	default:
		writeNomineeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleSubmitNomination(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.SubmitNominationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.nominees.Handler.SubmitNominationHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListNominees(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominees.Handler.ListNomineesHandler(
		r.Context(),
		r.PathValue("competition_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNominee(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominees.Handler.GetNomineeHandler(r.Context(), r.PathValue("nominee_id"))
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNomineeHistory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominees.Handler.HistoryHandler(r.Context(), r.PathValue("nominee_id"))
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecideNomination(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.DeciderID = resolveActorID(req.DeciderID, r)
	resp, err := s.nominees.Handler.DecideHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeclineNomination(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.ActorRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.ActorID = resolveActorID(req.ActorID, r)
	resp, err := s.nominees.Handler.DeclineHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaimNominee(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.ClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.AccountID = resolveActorID(req.AccountID, r)
	resp, err := s.nominees.Handler.ClaimHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateNomineeProfile(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.nominees.Handler.UpdateNomineeProfileHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.ActorRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.ActorID = resolveActorID(req.ActorID, r)
	resp, err := s.nominees.Handler.CompleteProfileHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConvertNominee(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.ActorRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.ActorID = resolveActorID(req.ActorID, r)
	resp, err := s.nominees.Handler.ConvertHandler(r.Context(), r.PathValue("nominee_id"), req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, createdOrReplayed(resp.Replayed), resp)
}

func (s *Server) handleListContestants(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominees.Handler.ListContestantsHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetContestant(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominees.Handler.GetContestantHandler(r.Context(), r.PathValue("contestant_id"))
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateContestantProfile saves the profile and then awards any profile
// bonus it now satisfies. A failed bonus check leaves the saved profile in place;
// the client can retry through the profile-check route.
func (s *Server) handleUpdateContestantProfile(w http.ResponseWriter, r *http.Request) {
	var req nomineehttp.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeNomineeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	contestantID := r.PathValue("contestant_id")
	contestant, err := s.nominees.Handler.UpdateContestantProfileHandler(r.Context(), contestantID, req)
	if err != nil {
		writeNomineeDomainError(w, err)
		return
	}

	resp := contestantProfileResponse{
		ContestantResponse: contestant,
		BonusAwards:        []bonushttp.AwardResponse{},
	}
	check, err := s.bonus.Handler.CheckProfileHandler(r.Context(), contestantID, bonushttp.CheckProfileRequest{})
	if err != nil {
		s.logger.Warn("profile bonus check failed after profile update",
			"event", "http_profile_bonus_check_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"contestant_id", contestantID,
			"error", err.Error(),
		)
	} else {
		resp.BonusAwards = check.AwardedTasks
		if n := len(check.AwardedTasks); n > 0 {
			resp.VoteTotal = check.AwardedTasks[n-1].NewTotal
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
