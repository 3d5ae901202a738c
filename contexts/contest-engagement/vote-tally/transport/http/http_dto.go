package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitVoteRequest struct {
	VoterID   string `json:"voter_id,omitempty"`
	Source    string `json:"source"`
	Quantity  int64  `json:"quantity,omitempty"`
	Reference string `json:"reference,omitempty"`
}

type SubmitVoteResponse struct {
	VoteEventID      string `json:"vote_event_id"`
	ContestantID     string `json:"contestant_id"`
	Source           string `json:"source"`
	CreditedQuantity int64  `json:"credited_quantity"`
	Multiplier       int64  `json:"multiplier"`
	NewTotal         int64  `json:"new_total"`
	Replayed         bool   `json:"replayed,omitempty"`
}

type LeaderboardEntryResponse struct {
	Rank         int    `json:"rank"`
	ContestantID string `json:"contestant_id"`
	DisplayName  string `json:"display_name"`
	Votes        int64  `json:"votes"`
}

type LeaderboardResponse struct {
	CompetitionID string                     `json:"competition_id"`
	Entries       []LeaderboardEntryResponse `json:"entries"`
}

type StandingResponse struct {
	ContestantID  string `json:"contestant_id"`
	CompetitionID string `json:"competition_id"`
	Votes         int64  `json:"votes"`
	Rank          int    `json:"rank"`
	Contestants   int    `json:"contestants"`
}

type VoteEventResponse struct {
	VoteEventID      string    `json:"vote_event_id"`
	Source           string    `json:"source"`
	RawQuantity      int64     `json:"raw_quantity"`
	Multiplier       int64     `json:"multiplier"`
	CreditedQuantity int64     `json:"credited_quantity"`
	VoterID          string    `json:"voter_id,omitempty"`
	Reference        string    `json:"reference,omitempty"`
	LocalDate        string    `json:"local_date,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type VoteEventsResponse struct {
	ContestantID string              `json:"contestant_id"`
	Items        []VoteEventResponse `json:"items"`
}

type AuditResponse struct {
	ContestantID string `json:"contestant_id"`
	StoredTotal  int64  `json:"stored_total"`
	LedgerTotal  int64  `json:"ledger_total"`
	EventCount   int    `json:"event_count"`
	Consistent   bool   `json:"consistent"`
}
