// Package kafka publishes order lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"orders/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// OrderChangedMessage is the wire format of an order lifecycle event.
type OrderChangedMessage struct {
	OrderID    int64     `json:"orderId"`
	Status     string    `json:"status"`
	Deleted    bool      `json:"deleted"`
	OccurredAt time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher implements ports.OrderEventPublisher. Messages are keyed
// by order id so every event of one order lands on the same partition.
type OrderEventPublisher struct {
	writer messageWriter
}

func NewOrderEventPublisher(brokers []string, topic string) *OrderEventPublisher {
	return newOrderEventPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	})
}

func newOrderEventPublisher(writer messageWriter) *OrderEventPublisher {
	return &OrderEventPublisher{writer: writer}
}

func (p *OrderEventPublisher) Publish(ctx context.Context, events ...order.ChangedEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(OrderChangedMessage{
			OrderID:    e.OrderID,
			Status:     e.Status.String(),
			Deleted:    e.Deleted,
			OccurredAt: e.OccurredAt,
		})
		if err != nil {
			return fmt.Errorf("encode event of order %d: %w", e.OrderID, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
			Value: value,
			Time:  e.OccurredAt,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
