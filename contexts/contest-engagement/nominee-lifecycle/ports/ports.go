package ports

import (
	"context"
	"time"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	"spotlight/internal/shared/events"
)

type EventEnvelope = events.Envelope

type NomineeFilter struct {
	CompetitionID string
	Status        entities.NomineeStatus
}

// NomineeMutation is a compare-and-set write: it applies only while the stored
// nominee still has ExpectedStatus and ExpectedAccountID, otherwise the store
// returns ErrStaleNominee and writes nothing.
type NomineeMutation struct {
	Nominee           entities.Nominee
	ExpectedStatus    entities.NomineeStatus
	ExpectedAccountID string
	Transition        *entities.Transition
	Events            []EventEnvelope
}

// Conversion flips the nominee to approved and creates its contestant in one
// atomic write. Created is false when another caller won the race and the
// returned contestant is the one it stored.
type Conversion struct {
	Nominee        entities.Nominee
	ExpectedStatus entities.NomineeStatus
	Contestant     entities.Contestant
	Transition     entities.Transition
	Events         []EventEnvelope
}

type ConversionResult struct {
	Contestant entities.Contestant
	Created    bool
}

type NomineeRepository interface {
	// CreateNominee inserts a nominee unless its contact key is already used
	// in the competition, in which case it returns ErrDuplicateEntry.
	CreateNominee(ctx context.Context, nominee entities.Nominee, transition entities.Transition, events []EventEnvelope) error
	GetNominee(ctx context.Context, nomineeID string) (entities.Nominee, error)
	ListNominees(ctx context.Context, filter NomineeFilter) ([]entities.Nominee, error)
	SaveNominee(ctx context.Context, mutation NomineeMutation) error
	ListTransitions(ctx context.Context, nomineeID string) ([]entities.Transition, error)
}

type ContestantRepository interface {
	ConvertNominee(ctx context.Context, conversion Conversion) (ConversionResult, error)
	GetContestant(ctx context.Context, contestantID string) (entities.Contestant, error)
	GetContestantByNominee(ctx context.Context, nomineeID string) (entities.Contestant, error)
	ListContestants(ctx context.Context, competitionID string) ([]entities.Contestant, error)
	// UpdateContestantProfile touches profile columns only; the vote total is
	// owned by the vote ledger.
	UpdateContestantProfile(ctx context.Context, contestant entities.Contestant) (entities.Contestant, error)
}

type Clock interface {
	Now() time.Time
}

// CompetitionDirectory is optional; nil accepts any competition id.
type CompetitionDirectory interface {
	CompetitionExists(ctx context.Context, competitionID string) (bool, error)
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ClaimTokenGenerator interface {
	NewClaimToken(ctx context.Context) (string, error)
}

// Metrics is optional; nil disables counting.
type Metrics interface {
	LifecycleTransition(event string, to string)
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type EventDedupStore interface {
	// ReserveEvent returns true when eventID was already processed.
	ReserveEvent(ctx context.Context, eventID string, expiresAt time.Time) (bool, error)
	// ReleaseEvent drops a reservation so a redelivered event is handled again.
	ReleaseEvent(ctx context.Context, eventID string) error
}

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelPush  NotificationChannel = "push"
)

type Notification struct {
	NotificationID string
	Channel        NotificationChannel
	Recipient      string
	Template       string
	Data           map[string]string
}

// Dispatcher is the email/push collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, notification Notification) error
}
