package services

import (
	"sort"
	"strings"
	"time"

	_ "time/tzdata"

	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
)

// LoadLocation resolves an IANA zone name. The embedded tzdata keeps results
// identical across hosts.
func LoadLocation(name string) (*time.Location, error) {
	value := strings.TrimSpace(name)
	if value == "" {
		return nil, domainerrors.ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, domainerrors.ErrInvalidTimezone
	}
	return loc, nil
}

// ActivePhase returns the lowest-ordinal regular phase containing at.
func ActivePhase(phases []entities.Phase, at time.Time) (entities.Phase, bool) {
	candidates := make([]entities.Phase, 0, len(phases))
	for _, phase := range phases {
		if phase.Kind == entities.PhaseKindPromotional {
			continue
		}
		if phase.Contains(at) {
			candidates = append(candidates, phase)
		}
	}
	if len(candidates) == 0 {
		return entities.Phase{}, false
	}
	sortPhases(candidates)
	return candidates[0], true
}

// MultiplierAt is purely date driven: 2 when any double-credit phase contains
// at, otherwise 1. The second result is the phase that granted the bonus.
func MultiplierAt(phases []entities.Phase, at time.Time) (int, entities.Phase) {
	ordered := append([]entities.Phase(nil), phases...)
	sortPhases(ordered)
	for _, phase := range ordered {
		if phase.DoubleCredit && phase.Contains(at) {
			return entities.MultiplierDoubleCredit, phase
		}
	}
	return entities.MultiplierStandard, entities.Phase{}
}

// PromotionalDayWindow expands a local calendar date into the UTC instants of
// its local midnight boundaries. DST days are 23 or 25 hours long.
func PromotionalDayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(entities.LocalDateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, time.Time{}, domainerrors.ErrInvalidPromotionalDate
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC(), nil
}

// LocalDate formats at as a calendar day in loc.
func LocalDate(at time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return at.In(loc).Format(entities.LocalDateLayout)
}

// CreditWindowAt assembles the credit rules for one instant.
func CreditWindowAt(competition entities.Competition, at time.Time) (entities.CreditWindow, error) {
	loc, err := LoadLocation(competition.Timezone)
	if err != nil {
		return entities.CreditWindow{}, err
	}
	multiplier, phase := MultiplierAt(competition.Phases, at)
	return entities.CreditWindow{
		CompetitionID:    competition.CompetitionID,
		At:               at.UTC(),
		Multiplier:       multiplier,
		Location:         loc,
		LocalDate:        LocalDate(at, loc),
		PromotionPhaseID: phase.PhaseID,
	}, nil
}

func sortPhases(phases []entities.Phase) {
	sort.SliceStable(phases, func(i, j int) bool {
		if phases[i].Ordinal != phases[j].Ordinal {
			return phases[i].Ordinal < phases[j].Ordinal
		}
		return phases[i].PhaseID < phases[j].PhaseID
	})
}
