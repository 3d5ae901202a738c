package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/nominee-lifecycle/application"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

const defaultNotificationCG = "nominee-lifecycle-notification-cg"

const (
	TemplateClaimInvite        = "nominee_claim_invite"
	TemplateSubmissionReceived = "nominee_submission_received"
	TemplateApproved           = "nominee_approved"
	TemplateRejected           = "nominee_rejected"
	TemplateContestantWelcome  = "contestant_welcome"
	TemplateContestantLive     = "contestant_live"
)

var notificationTopics = []string{
	entities.EventTypeNomineeSubmitted,
	entities.EventTypeNomineeApproved,
	entities.EventTypeNomineeRejected,
	entities.EventTypeContestantCreated,
}

// NotificationConsumer turns lifecycle events into email and push
// notifications. Each event is dispatched at most once per dedup window.
type NotificationConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Dispatcher    ports.Dispatcher
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("notification consumer disabled by feature flag",
			"event", "nominee_notification_consumer_disabled",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultNotificationCG
	}
	for _, topic := range notificationTopics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.Handle); err != nil {
			logger.Error("notification consumer subscribe failed",
				"event", "nominee_notification_consumer_subscribe_failed",
				"module", "contest-engagement/nominee-lifecycle",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("notification consumer subscriptions active",
		"event", "nominee_notification_consumer_started",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "worker",
		"consumer_group", group,
		"topics", len(notificationTopics),
	)
	return nil
}

// Handle dispatches the notifications for one lifecycle event.
func (c NotificationConsumer) Handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if alreadyProcessed, err := c.reserveEvent(ctx, event); err != nil {
		return err
	} else if alreadyProcessed {
		logger.Debug("lifecycle event replay skipped",
			"event", "nominee_notification_replayed",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	var payload entities.LifecyclePayload
	if err := event.Decode(&payload); err != nil {
		logger.Error("lifecycle event payload decode failed",
			"event", "nominee_notification_decode_failed",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		c.releaseEvent(ctx, event)
		return err
	}

	for _, notification := range notificationsFor(event, payload) {
		if err := c.Dispatcher.Dispatch(ctx, notification); err != nil {
			logger.Error("notification dispatch failed",
				"event", "nominee_notification_dispatch_failed",
				"module", "contest-engagement/nominee-lifecycle",
				"layer", "worker",
				"event_id", event.EventID,
				"template", notification.Template,
				"error", err.Error(),
			)
			c.releaseEvent(ctx, event)
			return err
		}
	}
	logger.Info("lifecycle event notified",
		"event", "nominee_notification_consumed",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"nominee_id", payload.NomineeID,
	)
	return nil
}

func notificationsFor(event ports.EventEnvelope, payload entities.LifecyclePayload) []ports.Notification {
	data := map[string]string{
		"nominee_id":     payload.NomineeID,
		"competition_id": payload.CompetitionID,
		"display_name":   payload.DisplayName,
	}
	email := func(template string, extra map[string]string) ports.Notification {
		merged := make(map[string]string, len(data)+len(extra))
		for key, value := range data {
			merged[key] = value
		}
		for key, value := range extra {
			merged[key] = value
		}
		return ports.Notification{
			NotificationID: event.EventID + ":" + template,
			Channel:        ports.NotificationChannelEmail,
			Recipient:      payload.Contact,
			Template:       template,
			Data:           merged,
		}
	}

	switch event.EventType {
	case entities.EventTypeNomineeSubmitted:
		if payload.Channel == string(entities.ChannelThirdParty) {
			return []ports.Notification{email(TemplateClaimInvite, map[string]string{
				"submitter_name": payload.SubmitterName,
				"claim_token":    payload.ClaimToken,
			})}
		}
		return []ports.Notification{email(TemplateSubmissionReceived, nil)}
	case entities.EventTypeNomineeApproved:
		return []ports.Notification{email(TemplateApproved, nil)}
	case entities.EventTypeNomineeRejected:
		return []ports.Notification{email(TemplateRejected, nil)}
	case entities.EventTypeContestantCreated:
		items := []ports.Notification{email(TemplateContestantWelcome, map[string]string{
			"contestant_id": payload.ContestantID,
		})}
		if strings.TrimSpace(payload.AccountID) != "" {
			items = append(items, ports.Notification{
				NotificationID: event.EventID + ":" + TemplateContestantLive,
				Channel:        ports.NotificationChannelPush,
				Recipient:      payload.AccountID,
				Template:       TemplateContestantLive,
				Data: map[string]string{
					"contestant_id":  payload.ContestantID,
					"competition_id": payload.CompetitionID,
				},
			})
		}
		return items
	default:
		return nil
	}
}

func (c NotificationConsumer) reserveEvent(ctx context.Context, event ports.EventEnvelope) (bool, error) {
	ttl := c.DedupTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return c.Dedup.ReserveEvent(ctx, event.EventID, c.now().Add(ttl))
}

// releaseEvent lets a redelivery retry the event. Notifications already sent
// are skipped by the dispatcher on their notification id.
func (c NotificationConsumer) releaseEvent(ctx context.Context, event ports.EventEnvelope) {
	if err := c.Dedup.ReleaseEvent(ctx, event.EventID); err != nil {
		application.ResolveLogger(c.Logger).Error("lifecycle event release failed",
			"event", "nominee_notification_release_failed",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
	}
}

func (c NotificationConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
