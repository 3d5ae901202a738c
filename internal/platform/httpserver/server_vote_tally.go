package httpserver

import (
	"errors"
	"net/http"

	voteerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	votehttp "spotlight/contexts/contest-engagement/vote-tally/transport/http"
)

func (s *Server) registerVoteRoutes() {
	s.handle("POST /v1/contestants/{contestant_id}/votes", s.handleSubmitVote)
	s.handle("GET /v1/contestants/{contestant_id}/votes", s.handleListVoteEvents)
	s.handle("GET /v1/contestants/{contestant_id}/standing", s.handleStanding)
	s.handle("GET /v1/contestants/{contestant_id}/audit", s.handleAuditContestant)
	s.handle("GET /v1/competitions/{competition_id}/leaderboard", s.handleLeaderboard)
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{Code: code, Message: message})
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_vote", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidVoteSource):
		writeVoteError(w, http.StatusBadRequest, "invalid_vote_source", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidQuantity):
		writeVoteError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, voteerrors.ErrContestantNotFound):
		writeVoteError(w, http.StatusNotFound, "contestant_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrFreeVoteExhausted):
		writeVoteError(w, http.StatusConflict, "free_vote_exhausted", err.Error())
	case errors.Is(err, voteerrors.ErrReferenceConflict):
		writeVoteError(w, http.StatusConflict, "reference_conflict", err.Error())
	case errors.Is(err, voteerrors.ErrDependencyUnavailable):
		writeVoteError(w, http.StatusFailedDependency, "dependency_unavailable", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.SubmitVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.VoterID = resolveActorID(req.VoterID, r)
	resp, err := s.votes.Handler.SubmitVoteHandler(r.Context(), r.PathValue("contestant_id"), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, createdOrReplayed(resp.Replayed), resp)
}

func (s *Server) handleListVoteEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.VoteEventsHandler(r.Context(), r.PathValue("contestant_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStanding(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.StandingHandler(r.Context(), r.PathValue("contestant_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuditContestant(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.AuditHandler(r.Context(), r.PathValue("contestant_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.LeaderboardHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
