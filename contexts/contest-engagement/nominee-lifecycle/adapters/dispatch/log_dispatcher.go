package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

// maxRetained bounds the deliveries kept for inspection in a long-running worker.
const maxRetained = 512

// LogDispatcher writes notifications to the structured log and keeps the most
// recent deliveries. It stands in for the email and push gateways.
type LogDispatcher struct {
	mu        sync.Mutex
	logger    *slog.Logger
	delivered []ports.Notification
	seen      map[string]struct{}
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

func (d *LogDispatcher) Dispatch(_ context.Context, notification ports.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := strings.TrimSpace(notification.NotificationID)
	if _, ok := d.seen[id]; ok && id != "" {
		return nil
	}
	d.seen[id] = struct{}{}
	d.delivered = append(d.delivered, notification)
	if len(d.delivered) > maxRetained {
		evicted := d.delivered[0]
		delete(d.seen, strings.TrimSpace(evicted.NotificationID))
		d.delivered = append(d.delivered[:0:0], d.delivered[1:]...)
	}
	d.logger.Info("notification dispatched",
		"event", "nominee_notification_dispatched",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "adapter",
		"notification_id", id,
		"channel", string(notification.Channel),
		"template", notification.Template,
	)
	return nil
}

func (d *LogDispatcher) Delivered() []ports.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ports.Notification(nil), d.delivered...)
}

var _ ports.Dispatcher = (*LogDispatcher)(nil)
