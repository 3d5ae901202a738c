package entities

import (
	"strings"
	"time"
)

type PhaseKind string

const (
	PhaseKindRegular     PhaseKind = "regular"
	PhaseKindPromotional PhaseKind = "promotional"
)

const (
	MultiplierStandard     = 1
	MultiplierDoubleCredit = 2
)

// LocalDateLayout is the calendar-day format used for promotional days and
// free-vote throttling.
const LocalDateLayout = "2006-01-02"

type Competition struct {
	CompetitionID string
	Name          string
	Timezone      string
	Phases        []Phase
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Phase is a half-open window [StartsAt, EndsAt). Promotional phases only
// carry the double-credit flag and never count as the active phase.
type Phase struct {
	PhaseID       string
	CompetitionID string
	Name          string
	Kind          PhaseKind
	Ordinal       int
	StartsAt      time.Time
	EndsAt        time.Time
	DoubleCredit  bool
	CreatedAt     time.Time
}

func (p Phase) Contains(at time.Time) bool {
	instant := at.UTC()
	return !instant.Before(p.StartsAt.UTC()) && instant.Before(p.EndsAt.UTC())
}

func (p Phase) ValidWindow() bool {
	return !p.StartsAt.IsZero() && !p.EndsAt.IsZero() && p.EndsAt.After(p.StartsAt)
}

func (k PhaseKind) Valid() bool {
	return k == PhaseKindRegular || k == PhaseKindPromotional
}

// CreditWindow describes the vote credit rules in force at one instant.
type CreditWindow struct {
	CompetitionID    string
	At               time.Time
	Multiplier       int
	Location         *time.Location
	LocalDate        string
	PromotionPhaseID string
}

func (c Competition) ValidateCreate() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Timezone) != ""
}
