package activities

import (
	"context"
	"encoding/json"
	"time"

	"github.com/effiwise/effimappro/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the producer uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ActivityProducer sends activity events to Kafka
type ActivityProducer struct {
	Writer MessageWriter
}

// NewActivityProducer initializes a Kafka writer for activity events
func NewActivityProducer(brokers []string, topic string, transport *kafka.Transport) *ActivityProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	if transport != nil {
		w.Transport = transport
	}
	return &ActivityProducer{Writer: w}
}

// NewEvent wraps an activity in the event contract
func NewEvent(activity model.Activity) ActivityRecordedEvent {
	return ActivityRecordedEvent{
		EventType:     EventTypeActivityRecorded,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Activity:      activity,
	}
}

// PublishActivityRecorded sends the event to the Kafka topic. Events are
// keyed by entity id so changes to one entity stay ordered.
func (p *ActivityProducer) PublishActivityRecorded(ctx context.Context, activity model.Activity) error {
	payload, err := json.Marshal(NewEvent(activity))
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(activity.EntityID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *ActivityProducer) Close() error {
	return p.Writer.Close()
}
