package services

import (
	"net/mail"
	"strings"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
)

var transitions = map[entities.NomineeStatus]map[entities.LifecycleEvent]entities.NomineeStatus{
	entities.NomineeStatusPending: {
		entities.EventConvert: entities.NomineeStatusApproved,
		entities.EventReject:  entities.NomineeStatusRejected,
		entities.EventDecline: entities.NomineeStatusDeclined,
	},
	entities.NomineeStatusPendingApproval: {
		entities.EventApprove: entities.NomineeStatusAwaitingProfile,
		entities.EventReject:  entities.NomineeStatusRejected,
		entities.EventDecline: entities.NomineeStatusDeclined,
	},
	entities.NomineeStatusAwaitingProfile: {
		entities.EventProfileCompleted: entities.NomineeStatusProfileComplete,
		entities.EventDecline:          entities.NomineeStatusDeclined,
	},
	entities.NomineeStatusProfileComplete: {
		entities.EventConvert: entities.NomineeStatusApproved,
		entities.EventDecline: entities.NomineeStatusDeclined,
	},
}

// NextStatus looks up the transition table. Terminal states have no outgoing
// edges, so every event from them is forbidden.
func NextStatus(from entities.NomineeStatus, event entities.LifecycleEvent) (entities.NomineeStatus, error) {
	edges, ok := transitions[from]
	if !ok {
		return "", domainerrors.ErrForbiddenTransition
	}
	to, ok := edges[event]
	if !ok {
		return "", domainerrors.ErrForbiddenTransition
	}
	return to, nil
}

// InitialStatus is the entry state for a submission channel.
func InitialStatus(channel entities.Channel) (entities.NomineeStatus, entities.LifecycleEvent, error) {
	switch channel {
	case entities.ChannelSelf:
		return entities.NomineeStatusPending, entities.EventSubmitSelf, nil
	case entities.ChannelThirdParty:
		return entities.NomineeStatusPendingApproval, entities.EventSubmitThirdParty, nil
	default:
		return "", "", domainerrors.ErrInvalidNominationInput
	}
}

// ValidPath reports whether statuses is a walk through the transition table
// starting at a submission entry state.
func ValidPath(statuses []entities.NomineeStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	if statuses[0] != entities.NomineeStatusPending && statuses[0] != entities.NomineeStatusPendingApproval {
		return false
	}
	for i := 1; i < len(statuses); i++ {
		found := false
		for _, to := range transitions[statuses[i-1]] {
			if to == statuses[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ProfileMeetsCompletion requires bio, city and at least one interest or photo.
func ProfileMeetsCompletion(profile entities.Profile) bool {
	normalized := profile.Normalized()
	if normalized.Bio == "" || normalized.City == "" {
		return false
	}
	return len(normalized.Interests) > 0 || normalized.PhotoRef != ""
}

// NormalizeContact validates an email contact and returns the trimmed address
// plus the lower-cased key used for duplicate detection.
func NormalizeContact(contact string) (string, string, error) {
	value := strings.TrimSpace(contact)
	if value == "" {
		return "", "", domainerrors.ErrInvalidNominationInput
	}
	parsed, err := mail.ParseAddress(value)
	if err != nil || parsed.Address != value {
		return "", "", domainerrors.ErrInvalidContact
	}
	return parsed.Address, strings.ToLower(parsed.Address), nil
}
