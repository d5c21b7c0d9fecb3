// Package messaging publishes order events to Kafka.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	platformkafka "github.com/finprodb/shop-api/internal/platform/kafka"
)

// DefaultTopic carries every order event, keyed by order code.
const DefaultTopic = "shop.orders"

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// Envelope is the wire shape of a published order event.
type Envelope struct {
	Event      string    `json:"event"`
	OrderCode  string    `json:"orderCode"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type KafkaPublisher struct {
	writer platformkafka.MessageWriter
}

func NewKafkaPublisher(writer platformkafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return platformkafka.ErrDisabled
	}
	var errs []error
	for _, event := range events {
		code := orderCode(event)
		envelope := Envelope{
			Event:      event.EventName(),
			OrderCode:  code,
			OccurredAt: event.OccurredAt().UTC(),
			Payload:    event,
		}
		if err := platformkafka.PublishJSON(ctx, p.writer, code, envelope); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", event.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

func orderCode(event domain.Event) string {
	switch e := event.(type) {
	case domain.OrderPlaced:
		return e.OrderCode
	case domain.OrderStatusChanged:
		return e.OrderCode
	default:
		return ""
	}
}
