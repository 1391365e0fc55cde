package kafka_infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A nil error commits the offset. A
// non-nil error leaves it uncommitted and the message is handled again.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader         *kafka.Reader
	logger         *zap.Logger
	handler        MessageHandler
	handlerTimeout time.Duration
	retryDelay     time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, handler MessageHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		Topic:             topic,
		GroupID:           groupID,
		MinBytes:          1,
		MaxBytes:          10e6,
		HeartbeatInterval: 3 * time.Second,
		MaxAttempts:       3,
		Logger:            kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Debug(fmt.Sprintf(msg, args...)) }),
		ErrorLogger:       kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
	})

	return &Consumer{
		reader:         reader,
		logger:         logger,
		handler:        handler,
		handlerTimeout: 25 * time.Second,
		retryDelay:     time.Second,
	}
}

// Consume blocks until ctx is cancelled or the reader is closed.
func (c *Consumer) Consume(ctx context.Context) error {
	topic := c.reader.Config().Topic
	c.logger.Info("Kafka consumer starting message consumption",
		zap.String("topic", topic),
		zap.String("group_id", c.reader.Config().GroupID),
	)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, kafka.ErrGroupClosed) || errors.Is(err, io.EOF) {
				c.logger.Info("Consumer stopping", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err), zap.String("topic", topic))
			if !sleepCtx(ctx, c.retryDelay) {
				return nil
			}
			continue
		}

		if !c.handle(ctx, m) {
			return nil
		}

		commitCtx, cancelCommit := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.reader.CommitMessages(commitCtx, m); err != nil {
			c.logger.Error("Failed to commit offset for message",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		}
		cancelCommit()
	}
}

// handle retries m until the handler accepts it. Later messages of the
// partition wait behind it. It returns false once ctx is done.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) bool {
	for {
		handleCtx, cancelHandler := context.WithTimeout(ctx, c.handlerTimeout)
		err := c.handler(handleCtx, m)
		cancelHandler()
		if err == nil {
			return true
		}
		c.logger.Error("Error handling Kafka message, offset not committed",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err))
		if !sleepCtx(ctx, c.retryDelay) {
			return false
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka consumer reader", zap.Error(err))
		return fmt.Errorf("failed to close Kafka consumer reader: %w", err)
	}
	c.logger.Info("Kafka consumer reader closed.", zap.String("topic", c.reader.Config().Topic))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
