package entities

const (
	EventTypeNomineeSubmitted        = "nominee.submitted"
	EventTypeNomineeApproved         = "nominee.approved"
	EventTypeNomineeRejected         = "nominee.rejected"
	EventTypeNomineeDeclined         = "nominee.declined"
	EventTypeNomineeProfileCompleted = "nominee.profile_completed"
	EventTypeNomineeClaimed          = "nominee.claimed"
	EventTypeContestantCreated       = "contestant.created"
)

// LifecyclePayload is the data carried by every nominee lifecycle event.
type LifecyclePayload struct {
	NomineeID        string `json:"nominee_id"`
	CompetitionID    string `json:"competition_id"`
	DisplayName      string `json:"display_name"`
	Contact          string `json:"contact"`
	Channel          string `json:"channel"`
	FromStatus       string `json:"from_status,omitempty"`
	Status           string `json:"status"`
	SubmitterName    string `json:"submitter_name,omitempty"`
	SubmitterContact string `json:"submitter_contact,omitempty"`
	ClaimToken       string `json:"claim_token,omitempty"`
	AccountID        string `json:"account_id,omitempty"`
	ContestantID     string `json:"contestant_id,omitempty"`
}
