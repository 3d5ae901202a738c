package httpadapter

import (
	"context"
	"log/slog"

	"spotlight/contexts/contest-engagement/vote-tally/application/commands"
	"spotlight/contexts/contest-engagement/vote-tally/application/queries"
	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	httptransport "spotlight/contexts/contest-engagement/vote-tally/transport/http"
)

type Handler struct {
	Votes   commands.VoteUseCase
	Queries queries.TallyQueries
	Logger  *slog.Logger
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	contestantID string,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Votes.SubmitVote(ctx, commands.SubmitVoteCommand{
		ContestantID: contestantID,
		VoterID:      req.VoterID,
		Source:       entities.VoteSource(req.Source),
		Quantity:     req.Quantity,
		Reference:    req.Reference,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return httptransport.SubmitVoteResponse{
		VoteEventID:      result.VoteEventID,
		ContestantID:     result.ContestantID,
		Source:           string(result.Source),
		CreditedQuantity: result.CreditedQuantity,
		Multiplier:       result.Multiplier,
		NewTotal:         result.NewTotal,
		Replayed:         result.Replayed,
	}, nil
}

func (h Handler) LeaderboardHandler(ctx context.Context, competitionID string) (httptransport.LeaderboardResponse, error) {
	entries, err := h.Queries.GetLeaderboard(ctx, competitionID)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	resp := httptransport.LeaderboardResponse{
		CompetitionID: competitionID,
		Entries:       make([]httptransport.LeaderboardEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, httptransport.LeaderboardEntryResponse{
			Rank:         entry.Rank,
			ContestantID: entry.ContestantID,
			DisplayName:  entry.DisplayName,
			Votes:        entry.Votes,
		})
	}
	return resp, nil
}

func (h Handler) StandingHandler(ctx context.Context, contestantID string) (httptransport.StandingResponse, error) {
	standing, err := h.Queries.GetStanding(ctx, contestantID)
	if err != nil {
		return httptransport.StandingResponse{}, err
	}
	return httptransport.StandingResponse{
		ContestantID:  standing.ContestantID,
		CompetitionID: standing.CompetitionID,
		Votes:         standing.Votes,
		Rank:          standing.Rank,
		Contestants:   standing.Contestants,
	}, nil
}

func (h Handler) VoteEventsHandler(ctx context.Context, contestantID string) (httptransport.VoteEventsResponse, error) {
	items, err := h.Queries.ListVoteEvents(ctx, contestantID)
	if err != nil {
		return httptransport.VoteEventsResponse{}, err
	}
	resp := httptransport.VoteEventsResponse{
		ContestantID: contestantID,
		Items:        make([]httptransport.VoteEventResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, httptransport.VoteEventResponse{
			VoteEventID:      item.VoteEventID,
			Source:           string(item.Source),
			RawQuantity:      item.RawQuantity,
			Multiplier:       item.Multiplier,
			CreditedQuantity: item.CreditedQuantity,
			VoterID:          item.VoterID,
			Reference:        item.Reference,
			LocalDate:        item.LocalDate,
			CreatedAt:        item.CreatedAt,
		})
	}
	return resp, nil
}

func (h Handler) AuditHandler(ctx context.Context, contestantID string) (httptransport.AuditResponse, error) {
	audit, err := h.Queries.AuditContestant(ctx, contestantID)
	if err != nil {
		return httptransport.AuditResponse{}, err
	}
	return httptransport.AuditResponse{
		ContestantID: audit.ContestantID,
		StoredTotal:  audit.StoredTotal,
		LedgerTotal:  audit.LedgerTotal,
		EventCount:   audit.EventCount,
		Consistent:   audit.Consistent,
	}, nil
}
