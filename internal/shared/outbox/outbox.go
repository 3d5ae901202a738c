package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"spotlight/internal/shared/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

var ErrMessageNotFound = errors.New("outbox message not found")

// Message is an outbox row persisted inside the same DB transaction as the
// state change it describes. The relay reads pending rows and publishes them.
type Message struct {
	OutboxID      string
	EventType     string
	SourceService string
	PartitionKey  string
	Payload       []byte
	CreatedAt     time.Time
}

// Model is the gorm row shared by every service writing to outbox_messages.
type Model struct {
	OutboxID      string     `gorm:"column:outbox_id;primaryKey"`
	EventType     string     `gorm:"column:event_type;not null"`
	SourceService string     `gorm:"column:source_service;not null"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       []byte     `gorm:"column:payload;not null"`
	Status        string     `gorm:"column:status;not null;index:idx_outbox_status_created"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;index:idx_outbox_status_created"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
}

func (Model) TableName() string {
	return "outbox_messages"
}

func modelFromEnvelope(envelope events.Envelope) (Model, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Model{}, err
	}
	row := Model{
		OutboxID:      strings.TrimSpace(envelope.EventID),
		EventType:     strings.TrimSpace(envelope.EventType),
		SourceService: strings.TrimSpace(envelope.SourceService),
		PartitionKey:  strings.TrimSpace(envelope.PartitionKey),
		Payload:       payload,
		Status:        StatusPending,
		CreatedAt:     envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

// Insert appends envelopes through tx. Callers pass their transaction handle so
// the rows commit or roll back with the state change.
func Insert(tx *gorm.DB, envelopes ...events.Envelope) error {
	for _, envelope := range envelopes {
		row, err := modelFromEnvelope(envelope)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Repository reads and acknowledges pending rows for the relay.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Model{})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []Model
	if err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Order("outbox_id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, Message{
			OutboxID:      row.OutboxID,
			EventType:     row.EventType,
			SourceService: row.SourceService,
			PartitionKey:  row.PartitionKey,
			Payload:       append([]byte(nil), row.Payload...),
			CreatedAt:     row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&Model{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       StatusPublished,
			"published_at": &at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MemoryLog is the in-memory outbox used by memory adapters and tests.
type MemoryLog struct {
	mu        sync.Mutex
	order     []string
	messages  map[string]Message
	published map[string]time.Time
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		messages:  make(map[string]Message),
		published: make(map[string]time.Time),
	}
}

func (l *MemoryLog) Append(envelopes ...events.Envelope) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, envelope := range envelopes {
		row, err := modelFromEnvelope(envelope)
		if err != nil {
			return err
		}
		if _, exists := l.messages[row.OutboxID]; exists {
			continue
		}
		l.order = append(l.order, row.OutboxID)
		l.messages[row.OutboxID] = Message{
			OutboxID:      row.OutboxID,
			EventType:     row.EventType,
			SourceService: row.SourceService,
			PartitionKey:  row.PartitionKey,
			Payload:       row.Payload,
			CreatedAt:     row.CreatedAt,
		}
	}
	return nil
}

func (l *MemoryLog) ListPendingOutbox(_ context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Message, 0, limit)
	for _, id := range l.order {
		if _, done := l.published[id]; done {
			continue
		}
		items = append(items, l.messages[id])
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (l *MemoryLog) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := strings.TrimSpace(outboxID)
	if _, exists := l.messages[id]; !exists {
		return ErrMessageNotFound
	}
	l.published[id] = publishedAt.UTC()
	return nil
}

// EventTypes lists every appended event type in append order.
func (l *MemoryLog) EventTypes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	types := make([]string, 0, len(l.order))
	for _, id := range l.order {
		types = append(types, l.messages[id].EventType)
	}
	return types
}

// Source is what the relay drains.
type Source interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Relay publishes persisted outbox rows to the event bus.
type Relay struct {
	Outbox    Source
	Publisher Publisher
	Now       func() time.Time
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending rows and marks each one
// published only after the bus accepts it. It stops on the first failure so
// the next cycle retries the remaining rows.
func (r Relay) RunOnce(ctx context.Context) (int, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "outbox_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(pending) == 0 {
		logger.Debug("outbox relay found no pending rows",
			"event", "outbox_relay_noop",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"batch_size", limit,
		)
		return 0, nil
	}

	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now().UTC()
	}

	published := 0
	for _, row := range pending {
		var event events.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("outbox decode failed",
				"event", "outbox_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("outbox publish failed",
				"event", "outbox_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", topic,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "outbox_mark_published_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		published++
	}

	logger.Info("outbox relay cycle completed",
		"event", "outbox_relay_completed",
		"module", "internal/shared/outbox",
		"layer", "worker",
		"published_count", published,
	)
	return published, nil
}
