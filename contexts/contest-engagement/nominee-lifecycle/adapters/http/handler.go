package httpadapter

import (
	"context"
	"log/slog"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/application/commands"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/application/queries"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	httptransport "spotlight/contexts/contest-engagement/nominee-lifecycle/transport/http"
)

type Handler struct {
	Lifecycle commands.LifecycleUseCase
	Queries   queries.NomineeQueries
	Logger    *slog.Logger
}

func (h Handler) SubmitNominationHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.SubmitNominationRequest,
) (httptransport.NomineeResponse, error) {
	cmd := commands.SubmitNominationCommand{
		CompetitionID: competitionID,
		Channel:       entities.Channel(req.Channel),
		DisplayName:   req.DisplayName,
		Contact:       req.Contact,
		Profile:       profileFromPayload(req.Profile),
	}
	if req.Submitter != nil {
		cmd.Submitter = &entities.Submitter{
			SubmitterID: req.Submitter.SubmitterID,
			Name:        req.Submitter.Name,
			Contact:     req.Submitter.Contact,
		}
	}
	nominee, err := h.Lifecycle.SubmitNomination(ctx, cmd)
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) GetNomineeHandler(ctx context.Context, nomineeID string) (httptransport.NomineeResponse, error) {
	nominee, err := h.Queries.GetNominee(ctx, nomineeID)
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) ListNomineesHandler(
	ctx context.Context,
	competitionID string,
	status string,
) (httptransport.ListNomineesResponse, error) {
	items, err := h.Queries.ListNominees(ctx, competitionID, status)
	if err != nil {
		return httptransport.ListNomineesResponse{}, err
	}
	resp := httptransport.ListNomineesResponse{
		Items: make([]httptransport.NomineeResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapNominee(item))
	}
	return resp, nil
}

func (h Handler) HistoryHandler(ctx context.Context, nomineeID string) (httptransport.HistoryResponse, error) {
	items, err := h.Queries.History(ctx, nomineeID)
	if err != nil {
		return httptransport.HistoryResponse{}, err
	}
	resp := httptransport.HistoryResponse{
		NomineeID:   nomineeID,
		Transitions: make([]httptransport.TransitionResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Transitions = append(resp.Transitions, httptransport.TransitionResponse{
			FromStatus: string(item.FromStatus),
			ToStatus:   string(item.ToStatus),
			Event:      string(item.Event),
			ActorID:    item.ActorID,
			OccurredAt: item.OccurredAt,
		})
	}
	return resp, nil
}

func (h Handler) DecideHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.DecisionRequest,
) (httptransport.NomineeResponse, error) {
	nominee, err := h.Lifecycle.DecideNomination(ctx, commands.DecideNominationCommand{
		NomineeID: nomineeID,
		Decision:  entities.Decision(req.Decision),
		DeciderID: req.DeciderID,
	})
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) DeclineHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.ActorRequest,
) (httptransport.NomineeResponse, error) {
	nominee, err := h.Lifecycle.DeclineNomination(ctx, commands.DeclineNominationCommand{
		NomineeID: nomineeID,
		ActorID:   req.ActorID,
	})
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) ClaimHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.ClaimRequest,
) (httptransport.NomineeResponse, error) {
	nominee, err := h.Lifecycle.ClaimNominee(ctx, commands.ClaimNomineeCommand{
		NomineeID:  nomineeID,
		AccountID:  req.AccountID,
		ClaimToken: req.ClaimToken,
	})
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) UpdateNomineeProfileHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.NomineeResponse, error) {
	nominee, err := h.Lifecycle.UpdateNomineeProfile(ctx, commands.UpdateNomineeProfileCommand{
		NomineeID:   nomineeID,
		DisplayName: req.DisplayName,
		Profile:     profileFromPayload(req.Profile),
	})
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) CompleteProfileHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.ActorRequest,
) (httptransport.NomineeResponse, error) {
	nominee, err := h.Lifecycle.MarkProfileComplete(ctx, commands.MarkProfileCompleteCommand{
		NomineeID: nomineeID,
		ActorID:   req.ActorID,
	})
	if err != nil {
		return httptransport.NomineeResponse{}, err
	}
	return mapNominee(nominee), nil
}

func (h Handler) ConvertHandler(
	ctx context.Context,
	nomineeID string,
	req httptransport.ActorRequest,
) (httptransport.ContestantResponse, error) {
	result, err := h.Lifecycle.ConvertToContestant(ctx, commands.ConvertToContestantCommand{
		NomineeID: nomineeID,
		ActorID:   req.ActorID,
	})
	if err != nil {
		return httptransport.ContestantResponse{}, err
	}
	resp := mapContestant(result.Contestant)
	resp.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) GetContestantHandler(ctx context.Context, contestantID string) (httptransport.ContestantResponse, error) {
	contestant, err := h.Queries.GetContestant(ctx, contestantID)
	if err != nil {
		return httptransport.ContestantResponse{}, err
	}
	return mapContestant(contestant), nil
}

func (h Handler) ListContestantsHandler(ctx context.Context, competitionID string) (httptransport.ListContestantsResponse, error) {
	items, err := h.Queries.ListContestants(ctx, competitionID)
	if err != nil {
		return httptransport.ListContestantsResponse{}, err
	}
	resp := httptransport.ListContestantsResponse{
		Items: make([]httptransport.ContestantResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapContestant(item))
	}
	return resp, nil
}

func (h Handler) UpdateContestantProfileHandler(
	ctx context.Context,
	contestantID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ContestantResponse, error) {
	contestant, err := h.Lifecycle.UpdateContestantProfile(ctx, commands.UpdateContestantProfileCommand{
		ContestantID: contestantID,
		DisplayName:  req.DisplayName,
		Profile:      profileFromPayload(req.Profile),
	})
	if err != nil {
		return httptransport.ContestantResponse{}, err
	}
	return mapContestant(contestant), nil
}

func profileFromPayload(payload httptransport.ProfilePayload) entities.Profile {
	return entities.Profile{
		Bio:       payload.Bio,
		City:      payload.City,
		Interests: payload.Interests,
		PhotoRef:  payload.PhotoRef,
		Instagram: payload.Instagram,
		TikTok:    payload.TikTok,
		Twitter:   payload.Twitter,
		Facebook:  payload.Facebook,
		YouTube:   payload.YouTube,
	}
}

func mapProfile(profile entities.Profile) httptransport.ProfilePayload {
	return httptransport.ProfilePayload{
		Bio:       profile.Bio,
		City:      profile.City,
		Interests: profile.Interests,
		PhotoRef:  profile.PhotoRef,
		Instagram: profile.Instagram,
		TikTok:    profile.TikTok,
		Twitter:   profile.Twitter,
		Facebook:  profile.Facebook,
		YouTube:   profile.YouTube,
	}
}

// mapNominee never exposes the claim token or raw contact.
func mapNominee(nominee entities.Nominee) httptransport.NomineeResponse {
	resp := httptransport.NomineeResponse{
		NomineeID:       nominee.NomineeID,
		CompetitionID:   nominee.CompetitionID,
		DisplayName:     nominee.DisplayName,
		Channel:         string(nominee.Channel),
		Status:          string(nominee.Status),
		AccountID:       nominee.AccountID,
		Profile:         mapProfile(nominee.Profile),
		ProfileComplete: nominee.ProfileComplete,
		Converted:       nominee.Converted,
		ContestantID:    nominee.ContestantID,
		CreatedAt:       nominee.CreatedAt,
		UpdatedAt:       nominee.UpdatedAt,
		DecidedAt:       nominee.DecidedAt,
		ConvertedAt:     nominee.ConvertedAt,
	}
	if nominee.Submitter != nil {
		resp.Submitter = &httptransport.SubmitterPayload{
			SubmitterID: nominee.Submitter.SubmitterID,
			Name:        nominee.Submitter.Name,
		}
	}
	return resp
}

func mapContestant(contestant entities.Contestant) httptransport.ContestantResponse {
	return httptransport.ContestantResponse{
		ContestantID:  contestant.ContestantID,
		CompetitionID: contestant.CompetitionID,
		NomineeID:     contestant.NomineeID,
		DisplayName:   contestant.DisplayName,
		Profile:       mapProfile(contestant.Profile),
		VoteTotal:     contestant.VoteTotal,
		CreatedAt:     contestant.CreatedAt,
	}
}
