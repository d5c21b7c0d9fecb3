package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	platformkafka "github.com/finprodb/shop-api/internal/platform/kafka"
)

type captureWriter struct {
	messages []kafka.Message
	err      error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestPublishKeysByOrderCode(t *testing.T) {
	writer := &captureWriter{}
	pub := NewKafkaPublisher(writer)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := pub.Publish(context.Background(),
		domain.OrderPlaced{BaseEvent: domain.BaseEvent{Timestamp: now}, OrderID: 1, OrderCode: "ORD-1-abc", TotalAmount: decimal.NewFromInt(10)},
		domain.OrderStatusChanged{BaseEvent: domain.BaseEvent{Timestamp: now}, OrderID: 1, OrderCode: "ORD-1-abc", From: domain.StatusPendingPayment, To: domain.StatusPaid},
	)
	require.NoError(t, err)
	require.Len(t, writer.messages, 2)
	assert.Equal(t, "ORD-1-abc", string(writer.messages[0].Key))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[1].Value, &envelope))
	assert.Equal(t, "orders.order.status_changed", envelope["event"])
	assert.Equal(t, "PAID", envelope["payload"].(map[string]any)["To"])
}

func TestPublishJoinsErrors(t *testing.T) {
	pub := NewKafkaPublisher(&captureWriter{err: errors.New("broker down")})
	err := pub.Publish(context.Background(), domain.OrderStatusChanged{OrderCode: "x"})
	assert.ErrorContains(t, err, "broker down")

	var nilPub *KafkaPublisher
	assert.ErrorIs(t, nilPub.Publish(context.Background()), platformkafka.ErrDisabled)
}
