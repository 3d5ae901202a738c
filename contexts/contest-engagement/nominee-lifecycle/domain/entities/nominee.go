package entities

import (
	"strings"
	"time"
)

type NomineeStatus string

const (
	NomineeStatusPending         NomineeStatus = "pending"
	NomineeStatusPendingApproval NomineeStatus = "pending_approval"
	NomineeStatusAwaitingProfile NomineeStatus = "awaiting_profile"
	NomineeStatusProfileComplete NomineeStatus = "profile_complete"
	NomineeStatusApproved        NomineeStatus = "approved"
	NomineeStatusRejected        NomineeStatus = "rejected"
	NomineeStatusDeclined        NomineeStatus = "declined"
)

func (s NomineeStatus) Terminal() bool {
	switch s {
	case NomineeStatusApproved, NomineeStatusRejected, NomineeStatusDeclined:
		return true
	default:
		return false
	}
}

func (s NomineeStatus) Valid() bool {
	switch s {
	case NomineeStatusPending,
		NomineeStatusPendingApproval,
		NomineeStatusAwaitingProfile,
		NomineeStatusProfileComplete,
		NomineeStatusApproved,
		NomineeStatusRejected,
		NomineeStatusDeclined:
		return true
	default:
		return false
	}
}

type Channel string

const (
	ChannelSelf       Channel = "self"
	ChannelThirdParty Channel = "third_party"
)

func (c Channel) Valid() bool {
	return c == ChannelSelf || c == ChannelThirdParty
}

type LifecycleEvent string

const (
	EventSubmitSelf       LifecycleEvent = "submit_self"
	EventSubmitThirdParty LifecycleEvent = "submit_third_party"
	EventApprove          LifecycleEvent = "approve"
	EventReject           LifecycleEvent = "reject"
	EventProfileCompleted LifecycleEvent = "profile_completed"
	EventConvert          LifecycleEvent = "convert"
	EventDecline          LifecycleEvent = "decline"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Profile is the normalized nominee/contestant profile. Social handles are
// explicit fields rather than free-form keys.
type Profile struct {
	Bio       string
	City      string
	Interests []string
	PhotoRef  string
	Instagram string
	TikTok    string
	Twitter   string
	Facebook  string
	YouTube   string
}

func (p Profile) Normalized() Profile {
	out := Profile{
		Bio:       strings.TrimSpace(p.Bio),
		City:      strings.TrimSpace(p.City),
		PhotoRef:  strings.TrimSpace(p.PhotoRef),
		Instagram: strings.TrimSpace(p.Instagram),
		TikTok:    strings.TrimSpace(p.TikTok),
		Twitter:   strings.TrimSpace(p.Twitter),
		Facebook:  strings.TrimSpace(p.Facebook),
		YouTube:   strings.TrimSpace(p.YouTube),
	}
	for _, interest := range p.Interests {
		if value := strings.TrimSpace(interest); value != "" {
			out.Interests = append(out.Interests, value)
		}
	}
	return out
}

type Submitter struct {
	SubmitterID string
	Name        string
	Contact     string
}

type Nominee struct {
	NomineeID       string
	CompetitionID   string
	DisplayName     string
	Contact         string
	ContactKey      string
	Channel         Channel
	Submitter       *Submitter
	Status          NomineeStatus
	AccountID       string
	ClaimToken      string
	Profile         Profile
	ProfileComplete bool
	Converted       bool
	ContestantID    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DecidedAt       *time.Time
	ConvertedAt     *time.Time
}

func (n Nominee) Claimed() bool {
	return strings.TrimSpace(n.AccountID) != ""
}

// Contestant is created once per converted nominee. Rank is never stored; it is
// derived from the full contestant set on read.
type Contestant struct {
	ContestantID  string
	CompetitionID string
	NomineeID     string
	DisplayName   string
	Profile       Profile
	VoteTotal     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Transition is one audited status change.
type Transition struct {
	TransitionID string
	NomineeID    string
	FromStatus   NomineeStatus
	ToStatus     NomineeStatus
	Event        LifecycleEvent
	ActorID      string
	OccurredAt   time.Time
}
