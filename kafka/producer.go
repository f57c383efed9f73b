package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/ecocycle/backend/models"
)

// ProducerAPI is what the order service needs from a producer.
type ProducerAPI interface {
	SendOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// SendOrderCreated publishes an order.created event keyed by shopper id.
func (p *Producer) SendOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
