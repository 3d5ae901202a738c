package events

import (
	"encoding/json"
	"strings"
	"time"
)

// Envelope is the shared event shape written to the outbox and carried on the bus.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	CorrelationID    string          `json:"correlation_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// New builds a version 1 envelope. Events are partitioned by the entity they
// describe so consumers observe per-entity ordering.
func New(
	eventID string,
	eventType string,
	sourceService string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data any,
) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        strings.TrimSpace(eventType),
		OccurredAt:       occurredAt.UTC(),
		SourceService:    strings.TrimSpace(sourceService),
		CorrelationID:    strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: strings.TrimSpace(partitionKeyPath),
		PartitionKey:     strings.TrimSpace(partitionKey),
		Data:             payload,
	}, nil
}

// Decode unmarshals the envelope payload into target.
func (e Envelope) Decode(target any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, target)
}
