package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ecocycle/backend/models"
)

// fulfillmentApplier is what the consumer needs from the order service.
type fulfillmentApplier interface {
	MarkShipped(ctx context.Context, number, trackingNumber, deliveryEstimate string) (*models.Order, error)
	MarkDelivered(ctx context.Context, number string) (*models.Order, error)
	Cancel(ctx context.Context, number string) (*models.Order, error)
}

// FulfillmentConsumer reads fulfillment events and drives order status
// transitions. The pipeline is not trusted: malformed payloads and illegal
// sequences are rejected and logged, and the order stays as it was.
type FulfillmentConsumer struct {
	reader *kafka.Reader
	orders fulfillmentApplier
	log    *zap.Logger
	topic  string
	group  string
}

func NewFulfillmentConsumer(brokers []string, topic, groupID string, orders fulfillmentApplier, log *zap.Logger) *FulfillmentConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &FulfillmentConsumer{
		reader: r,
		orders: orders,
		log:    log,
		topic:  topic,
		group:  groupID,
	}
}

// Start blocks reading messages until ctx is cancelled.
func (c *FulfillmentConsumer) Start(ctx context.Context) {
	c.log.Info("fulfillment consumer listening",
		zap.String("topic", c.topic), zap.String("group", c.group))

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("fulfillment read error", zap.Error(err))
			continue
		}
		if err := c.HandleEvent(ctx, m.Value); err != nil {
			c.log.Error("fulfillment event rejected",
				zap.Error(err), zap.ByteString("payload", m.Value))
		}
	}
}

// HandleEvent validates and applies one fulfillment event.
func (c *FulfillmentConsumer) HandleEvent(ctx context.Context, payload []byte) error {
	var evt models.FulfillmentEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("invalid fulfillment payload: %w", err)
	}
	if evt.OrderNumber == "" {
		return fmt.Errorf("fulfillment event missing order_number")
	}

	var err error
	switch evt.Event {
	case models.EventOrderShipped:
		_, err = c.orders.MarkShipped(ctx, evt.OrderNumber, evt.TrackingNumber, evt.DeliveryEstimate)
	case models.EventOrderDelivered:
		_, err = c.orders.MarkDelivered(ctx, evt.OrderNumber)
	case models.EventOrderCancelled:
		_, err = c.orders.Cancel(ctx, evt.OrderNumber)
	default:
		return fmt.Errorf("unknown fulfillment event type: %s", evt.Event)
	}
	if err != nil {
		return fmt.Errorf("apply %s to order %s: %w", evt.Event, evt.OrderNumber, err)
	}

	c.log.Info("fulfillment event applied",
		zap.String("event", evt.Event), zap.String("order_number", evt.OrderNumber))
	return nil
}

func (c *FulfillmentConsumer) Close() error {
	return c.reader.Close()
}
