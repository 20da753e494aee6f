package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// EventProducer publishes outbox events keyed by attestation record id, so every
// event of one record lands on the same partition in order.
type EventProducer struct {
	*producer.Producer
	maxRetries int
	topic      string
}

func NewEventProducer(producer *producer.Producer, retries int, topic string) *EventProducer {
	return &EventProducer{
		producer,
		retries,
		topic,
	}
}

func (ep *EventProducer) SendEvents(ctx context.Context, events []*entity.OutboxEvent) error {
	msgsToSend := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		msg := kafka.Message{
			Topic: ep.topic,
			Key:   []byte(event.AggregateID.String()),
			Value: event.Payload,
			Time:  event.CreatedAt,
			Headers: []kafka.Header{
				{Key: HeaderEventID, Value: []byte(event.ID.String())},
				{Key: HeaderEventType, Value: []byte(event.Type)},
			},
		}
		msgsToSend = append(msgsToSend, msg)
	}

	if len(msgsToSend) == 0 {
		return nil
	}

	err := ep.Writer.WriteMessages(ctx, msgsToSend...)
	if err != nil {
		return fmt.Errorf("EventProducer - SendEvents - ep.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (ep *EventProducer) Close() error {
	err := ep.Producer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
