package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Header = kafka.Header

// Producer is a thin wrapper around segmentio/kafka-go Writer.
type Producer struct {
	w *kafka.Writer
}

func NewProducerFromConfig(c Config) *Producer {
	return &Producer{w: &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{}, // same account key -> same partition
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}}
}

func (p *Producer) Write(ctx context.Context, msgs ...Message) error {
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *Producer) Close() error { return p.w.Close() }
