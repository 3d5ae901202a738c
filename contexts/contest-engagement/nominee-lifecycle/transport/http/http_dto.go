package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProfilePayload struct {
	Bio       string   `json:"bio,omitempty"`
	City      string   `json:"city,omitempty"`
	Interests []string `json:"interests,omitempty"`
	PhotoRef  string   `json:"photo_ref,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	TikTok    string   `json:"tiktok,omitempty"`
	Twitter   string   `json:"twitter,omitempty"`
	Facebook  string   `json:"facebook,omitempty"`
	YouTube   string   `json:"youtube,omitempty"`
}

type SubmitterPayload struct {
	SubmitterID string `json:"submitter_id,omitempty"`
	Name        string `json:"name"`
	Contact     string `json:"contact,omitempty"`
}

type SubmitNominationRequest struct {
	Channel     string            `json:"channel"`
	DisplayName string            `json:"display_name"`
	Contact     string            `json:"contact"`
	Profile     ProfilePayload    `json:"profile"`
	Submitter   *SubmitterPayload `json:"submitter,omitempty"`
}

type DecisionRequest struct {
	Decision  string `json:"decision"`
	DeciderID string `json:"decider_id,omitempty"`
}

type ActorRequest struct {
	ActorID string `json:"actor_id,omitempty"`
}

type ClaimRequest struct {
	AccountID  string `json:"account_id"`
	ClaimToken string `json:"claim_token,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName string         `json:"display_name,omitempty"`
	Profile     ProfilePayload `json:"profile"`
}

type NomineeResponse struct {
	NomineeID       string            `json:"nominee_id"`
	CompetitionID   string            `json:"competition_id"`
	DisplayName     string            `json:"display_name"`
	Channel         string            `json:"channel"`
	Status          string            `json:"status"`
	Submitter       *SubmitterPayload `json:"submitter,omitempty"`
	AccountID       string            `json:"account_id,omitempty"`
	Profile         ProfilePayload    `json:"profile"`
	ProfileComplete bool              `json:"profile_complete"`
	Converted       bool              `json:"converted"`
	ContestantID    string            `json:"contestant_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DecidedAt       *time.Time        `json:"decided_at,omitempty"`
	ConvertedAt     *time.Time        `json:"converted_at,omitempty"`
}

type ListNomineesResponse struct {
	Items []NomineeResponse `json:"items"`
}

type TransitionResponse struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Event      string    `json:"event"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type HistoryResponse struct {
	NomineeID   string               `json:"nominee_id"`
	Transitions []TransitionResponse `json:"transitions"`
}

type ContestantResponse struct {
	ContestantID  string         `json:"contestant_id"`
	CompetitionID string         `json:"competition_id"`
	NomineeID     string         `json:"nominee_id"`
	DisplayName   string         `json:"display_name"`
	Profile       ProfilePayload `json:"profile"`
	VoteTotal     int64          `json:"vote_total"`
	CreatedAt     time.Time      `json:"created_at"`
	Replayed      bool           `json:"replayed,omitempty"`
}

type ListContestantsResponse struct {
	Items []ContestantResponse `json:"items"`
}
