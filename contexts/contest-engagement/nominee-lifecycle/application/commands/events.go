package commands

import (
	"context"
	"time"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
	"spotlight/internal/shared/events"
)

const sourceService = "nominee-lifecycle"

func (uc LifecycleUseCase) newLifecycleEnvelope(
	ctx context.Context,
	eventType string,
	nominee entities.Nominee,
	fromStatus entities.NomineeStatus,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload := entities.LifecyclePayload{
		NomineeID:     nominee.NomineeID,
		CompetitionID: nominee.CompetitionID,
		DisplayName:   nominee.DisplayName,
		Contact:       nominee.Contact,
		Channel:       string(nominee.Channel),
		FromStatus:    string(fromStatus),
		Status:        string(nominee.Status),
		AccountID:     nominee.AccountID,
		ContestantID:  nominee.ContestantID,
	}
	if nominee.Submitter != nil {
		payload.SubmitterName = nominee.Submitter.Name
		payload.SubmitterContact = nominee.Submitter.Contact
	}
	if eventType == entities.EventTypeNomineeSubmitted {
		payload.ClaimToken = nominee.ClaimToken
	}
	return events.New(eventID, eventType, sourceService, "nominee_id", nominee.NomineeID, occurredAt, payload)
}

func eventTypeFor(event entities.LifecycleEvent) string {
	switch event {
	case entities.EventApprove:
		return entities.EventTypeNomineeApproved
	case entities.EventReject:
		return entities.EventTypeNomineeRejected
	case entities.EventDecline:
		return entities.EventTypeNomineeDeclined
	case entities.EventProfileCompleted:
		return entities.EventTypeNomineeProfileCompleted
	case entities.EventConvert:
		return entities.EventTypeContestantCreated
	default:
		return entities.EventTypeNomineeSubmitted
	}
}
