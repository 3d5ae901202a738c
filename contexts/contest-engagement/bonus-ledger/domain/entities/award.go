package entities

import "time"

const ReasonAlreadyAwarded = "already-awarded"

// AwardRecord is the durable proof that a task was completed. There is at most
// one per contestant and task key.
type AwardRecord struct {
	AwardID       string
	ContestantID  string
	CompetitionID string
	TaskKey       string
	PointsGranted int64
	AwardedAt     time.Time
}

// AwardOutcome is the caller-facing result of an award attempt. A repeated
// award is a result, not an error.
type AwardOutcome struct {
	Success      bool
	TaskKey      string
	VotesAwarded int64
	NewTotal     int64
	Reason       string
}

type TaskStatus struct {
	Task          Task
	Completed     bool
	PointsGranted int64
	AwardedAt     *time.Time
}

type BonusVoteStatus struct {
	ContestantID   string
	Tasks          []TaskStatus
	CompletedCount int
	TotalCount     int
	VotesEarned    int64
	VotesAvailable int64
}

const EventTypeBonusAwarded = "bonus.awarded"

type BonusAwardedPayload struct {
	AwardID       string `json:"award_id"`
	ContestantID  string `json:"contestant_id"`
	CompetitionID string `json:"competition_id"`
	TaskKey       string `json:"task_key"`
	Points        int64  `json:"points"`
}
