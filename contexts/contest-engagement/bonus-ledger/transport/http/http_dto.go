package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TaskRequest struct {
	Key       string `json:"key"`
	Label     string `json:"label,omitempty"`
	Points    int64  `json:"points"`
	SortOrder int    `json:"sort_order,omitempty"`
	Kind      string `json:"kind"`
}

type PublishCatalogRequest struct {
	Tasks []TaskRequest `json:"tasks"`
}

type UpdateTaskPointsRequest struct {
	Points int64 `json:"points"`
}

type TaskResponse struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Points    int64  `json:"points"`
	SortOrder int    `json:"sort_order"`
	Kind      string `json:"kind"`
}

type CatalogResponse struct {
	CompetitionID string         `json:"competition_id"`
	Tasks         []TaskResponse `json:"tasks"`
	Inserted      int            `json:"inserted,omitempty"`
}

type AwardRequest struct {
	TaskKey string `json:"task_key"`
}

type ProfileSnapshotRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	City        string `json:"city,omitempty"`
	PhotoRef    string `json:"photo_ref,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	TikTok      string `json:"tiktok,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	YouTube     string `json:"youtube,omitempty"`
}

type CheckProfileRequest struct {
	Snapshot *ProfileSnapshotRequest `json:"snapshot,omitempty"`
}

type AwardResponse struct {
	Success      bool   `json:"success"`
	TaskKey      string `json:"task_key"`
	VotesAwarded int64  `json:"votes_awarded,omitempty"`
	NewTotal     int64  `json:"new_total"`
	Reason       string `json:"reason,omitempty"`
}

type CheckProfileResponse struct {
	ContestantID string          `json:"contestant_id"`
	AwardedTasks []AwardResponse `json:"awarded_tasks"`
}

type TaskStatusResponse struct {
	TaskResponse
	Completed     bool       `json:"completed"`
	PointsGranted int64      `json:"points_granted,omitempty"`
	AwardedAt     *time.Time `json:"awarded_at,omitempty"`
}

type BonusStatusResponse struct {
	ContestantID   string               `json:"contestant_id"`
	Tasks          []TaskStatusResponse `json:"tasks"`
	CompletedCount int                  `json:"completed_count"`
	TotalCount     int                  `json:"total_count"`
	VotesEarned    int64                `json:"votes_earned"`
	VotesAvailable int64                `json:"votes_available"`
}
