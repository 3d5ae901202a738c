package entities

import (
	"strings"
	"time"
)

type TaskKind string

const (
	// TaskKindProfile tasks complete when a profile predicate holds.
	TaskKindProfile TaskKind = "profile"
	// TaskKindAction tasks complete only on explicit acknowledgement.
	TaskKindAction TaskKind = "action"
)

func (k TaskKind) Valid() bool {
	return k == TaskKindProfile || k == TaskKindAction
}

const (
	TaskCompleteProfile = "complete_profile"
	TaskAddPhoto        = "add_photo"
	TaskAddSocial       = "add_social"
	TaskViewHowToWin    = "view_how_to_win"
	TaskShareProfile    = "share_profile"
)

// Task is one published bonus task of a competition catalog. Only Points may
// change after publication.
type Task struct {
	CompetitionID string
	Key           string
	Label         string
	Points        int64
	SortOrder     int
	Kind          TaskKind
	PublishedAt   time.Time
	UpdatedAt     time.Time
}

// DefaultCatalog is published lazily for competitions without their own.
func DefaultCatalog() []Task {
	return []Task{
		{Key: TaskCompleteProfile, Label: "Complete your profile", Points: 10, SortOrder: 1, Kind: TaskKindProfile},
		{Key: TaskAddPhoto, Label: "Add a profile photo", Points: 5, SortOrder: 2, Kind: TaskKindProfile},
		{Key: TaskAddSocial, Label: "Link a social account", Points: 5, SortOrder: 3, Kind: TaskKindProfile},
		{Key: TaskViewHowToWin, Label: "Read how to win", Points: 2, SortOrder: 4, Kind: TaskKindAction},
		{Key: TaskShareProfile, Label: "Share your profile", Points: 3, SortOrder: 5, Kind: TaskKindAction},
	}
}

// ProfileSnapshot is the single normalized profile shape predicates read.
type ProfileSnapshot struct {
	DisplayName string
	Bio         string
	City        string
	PhotoRef    string
	Instagram   string
	TikTok      string
	Twitter     string
	Facebook    string
	YouTube     string
}

func (p ProfileSnapshot) Normalized() ProfileSnapshot {
	return ProfileSnapshot{
		DisplayName: strings.TrimSpace(p.DisplayName),
		Bio:         strings.TrimSpace(p.Bio),
		City:        strings.TrimSpace(p.City),
		PhotoRef:    strings.TrimSpace(p.PhotoRef),
		Instagram:   strings.TrimSpace(p.Instagram),
		TikTok:      strings.TrimSpace(p.TikTok),
		Twitter:     strings.TrimSpace(p.Twitter),
		Facebook:    strings.TrimSpace(p.Facebook),
		YouTube:     strings.TrimSpace(p.YouTube),
	}
}

// ContestantRef is the contestant projection the ledger reads.
type ContestantRef struct {
	ContestantID  string
	CompetitionID string
	VoteTotal     int64
	Profile       ProfileSnapshot
}
