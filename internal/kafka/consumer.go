package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
	log    logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume hands messages to handler until the context ends, the reader fails
// or the handler returns an error. With a group reader, ReadMessage commits the
// offset of every message it returns.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			c.log.Error("reference event failed",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
			return err
		}
		c.log.Debug("reference event handled",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))
	}
}

// ConsumeReferenceEvents decodes every message and passes it to apply.
// Undecodable or invalid events are logged and skipped; any other error from
// apply stops the consumer.
func (c *Consumer) ConsumeReferenceEvents(ctx context.Context, apply func(context.Context, ReferenceEvent) error) error {
	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		event, err := DecodeReferenceEvent(msg.Value)
		if err == nil {
			err = apply(ctx, event)
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			c.log.Warn("skipping reference event",
				"partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key), "error", err)
			return nil
		}
		return err
	})
}
