package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	clockentities "spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	clockerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	nomineeports "spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
	voteentities "spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	voteerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	voteports "spotlight/contexts/contest-engagement/vote-tally/ports"
)

type creditWindowSource interface {
	CreditWindow(ctx context.Context, competitionID string, at time.Time) (clockentities.CreditWindow, error)
}

// promotionCalendar answers the vote tally's credit questions from the
// competition clock. Competitions the clock does not know earn single credit
// on the fallback timezone's calendar day.
type promotionCalendar struct {
	clock    creditWindowSource
	fallback *time.Location
}

func (c promotionCalendar) CreditTerms(ctx context.Context, competitionID string, at time.Time) (voteentities.CreditTerms, error) {
	window, err := c.clock.CreditWindow(ctx, competitionID, at)
	if errors.Is(err, clockerrors.ErrCompetitionNotFound) {
		location := c.fallback
		if location == nil {
			location = time.UTC
		}
		return voteentities.CreditTerms{
			Multiplier: 1,
			LocalDate:  at.In(location).Format(time.DateOnly),
		}, nil
	}
	if err != nil {
		return voteentities.CreditTerms{}, fmt.Errorf("%w: %v", voteerrors.ErrDependencyUnavailable, err)
	}
	return voteentities.CreditTerms{
		Multiplier:       int64(window.Multiplier),
		LocalDate:        window.LocalDate,
		PromotionPhaseID: window.PromotionPhaseID,
	}, nil
}

var _ voteports.PromotionCalendar = promotionCalendar{}

type competitionLookup interface {
	GetCompetition(ctx context.Context, competitionID string) (clockentities.Competition, error)
}

// competitionDirectory lets nominations reject competitions the clock has
// never heard of.
type competitionDirectory struct {
	clock competitionLookup
}

func (d competitionDirectory) CompetitionExists(ctx context.Context, competitionID string) (bool, error) {
	_, err := d.clock.GetCompetition(ctx, competitionID)
	if errors.Is(err, clockerrors.ErrCompetitionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ nomineeports.CompetitionDirectory = competitionDirectory{}
