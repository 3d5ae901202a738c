package entities

import "time"

type VoteSource string

const (
	VoteSourceFree      VoteSource = "free"
	VoteSourcePurchased VoteSource = "purchased"
	VoteSourceBonus     VoteSource = "bonus"
)

func (s VoteSource) Valid() bool {
	return s == VoteSourceFree || s == VoteSourcePurchased || s == VoteSourceBonus
}

const (
	// DefaultMaxPurchaseQuantity caps a single purchased vote event.
	DefaultMaxPurchaseQuantity int64 = 1000
	// FreeVoteQuantity is the daily raw allowance per voter and contestant.
	FreeVoteQuantity int64 = 1
)

// VoteEvent is an append-only ledger row. CreditedQuantity is always
// RawQuantity times Multiplier.
type VoteEvent struct {
	VoteEventID      string
	ContestantID     string
	CompetitionID    string
	Source           VoteSource
	RawQuantity      int64
	Multiplier       int64
	CreditedQuantity int64
	VoterID          string
	Reference        string
	DedupKey         string
	LocalDate        string
	CreatedAt        time.Time
}

type VoteResult struct {
	VoteEventID      string
	ContestantID     string
	Source           VoteSource
	CreditedQuantity int64
	Multiplier       int64
	NewTotal         int64
	Replayed         bool
}

// ContestantTotal is the contestant projection the tally ranks.
type ContestantTotal struct {
	ContestantID  string
	CompetitionID string
	DisplayName   string
	VoteTotal     int64
	CreatedAt     time.Time
}

type LeaderboardEntry struct {
	ContestantID string
	DisplayName  string
	Votes        int64
	Rank         int
}

type Standing struct {
	ContestantID  string
	CompetitionID string
	Votes         int64
	Rank          int
	Contestants   int
}

// Audit compares the stored running total with the ledger sum.
type Audit struct {
	ContestantID string
	StoredTotal  int64
	LedgerTotal  int64
	EventCount   int
	Consistent   bool
}

// CreditTerms are the credit rules for one vote at one instant.
type CreditTerms struct {
	Multiplier       int64
	LocalDate        string
	PromotionPhaseID string
}

const EventTypeVoteRecorded = "vote.recorded"

type VoteRecordedPayload struct {
	VoteEventID      string `json:"vote_event_id"`
	ContestantID     string `json:"contestant_id"`
	CompetitionID    string `json:"competition_id"`
	Source           string `json:"source"`
	RawQuantity      int64  `json:"raw_quantity"`
	Multiplier       int64  `json:"multiplier"`
	CreditedQuantity int64  `json:"credited_quantity"`
	LocalDate        string `json:"local_date,omitempty"`
}
