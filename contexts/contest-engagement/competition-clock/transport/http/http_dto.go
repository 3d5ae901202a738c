package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PhaseRequest struct {
	Name         string    `json:"name"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	DoubleCredit bool      `json:"double_credit"`
}

type CreateCompetitionRequest struct {
	CompetitionID    string         `json:"competition_id,omitempty"`
	Name             string         `json:"name"`
	Timezone         string         `json:"timezone"`
	Phases           []PhaseRequest `json:"phases,omitempty"`
	PromotionalDates []string       `json:"promotional_dates,omitempty"`
}

type AddPromotionalDayRequest struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

type PhaseResponse struct {
	PhaseID      string    `json:"phase_id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	Ordinal      int       `json:"ordinal"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	DoubleCredit bool      `json:"double_credit"`
}

type CompetitionResponse struct {
	CompetitionID string          `json:"competition_id"`
	Name          string          `json:"name"`
	Timezone      string          `json:"timezone"`
	Phases        []PhaseResponse `json:"phases"`
	CreatedAt     time.Time       `json:"created_at"`
	Replayed      bool            `json:"replayed,omitempty"`
}

type ListCompetitionsResponse struct {
	Items []CompetitionResponse `json:"items"`
}

type ClockResponse struct {
	CompetitionID    string         `json:"competition_id"`
	At               time.Time      `json:"at"`
	LocalDate        string         `json:"local_date"`
	Timezone         string         `json:"timezone"`
	Multiplier       int            `json:"multiplier"`
	DoubleCredit     bool           `json:"double_credit"`
	PromotionPhaseID string         `json:"promotion_phase_id,omitempty"`
	ActivePhase      *PhaseResponse `json:"active_phase,omitempty"`
}
