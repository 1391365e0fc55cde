package outbox

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bankengine/internal/domain"
	kafka_infra "bankengine/internal/infrastructure/kafka"
	"bankengine/internal/repository/outbox_repo"
)

type PublishRecorder interface {
	RecordOutboxPublish(ok bool)
}

type Processor struct {
	uow           domain.UnitOfWork
	outboxRepo    outbox_repo.OutboxRepository
	kafkaProducer kafka_infra.Producer
	topic         string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	batchSize     int
	metrics       PublishRecorder
	logger        *zap.Logger
}

func NewProcessor(
	uow domain.UnitOfWork,
	outboxRepo outbox_repo.OutboxRepository,
	kafkaProducer kafka_infra.Producer,
	topic string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	batchSize int,
	metrics PublishRecorder,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		uow:           uow,
		outboxRepo:    outboxRepo,
		kafkaProducer: kafkaProducer,
		topic:         topic,
		pollInterval:  pollInterval,
		pollTimeout:   pollTimeout,
		batchSize:     batchSize,
		metrics:       metrics,
		logger:        logger,
	}
}

// Start polls the outbox until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) error {
	p.logger.Info("Starting outbox processor...", zap.String("topic", p.topic), zap.Duration("poll_interval", p.pollInterval))
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox processor stopped.")
			return nil
		case <-ticker.C:
			if _, err := p.PublishPending(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Failed to publish outbox messages", zap.Error(err))
			}
		}
	}
}

// PublishPending sends one batch of pending messages and marks the published
// ones as sent. The batch stops at the first failed send, leaving it and the
// rest pending, so that events of one key keep their order.
func (p *Processor) PublishPending(ctx context.Context) (int, error) {
	sent := 0
	err := p.uow.RunInTransaction(ctx, func(ctx context.Context, q domain.Querier) error {
		messages, err := p.fetch(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to get pending outbox messages: %w", err)
		}
		if len(messages) == 0 {
			p.logger.Debug("No pending outbox messages found.")
			return nil
		}
		p.logger.Debug("Found pending outbox messages", zap.Int("count", len(messages)))

		for _, msg := range messages {
			if err := p.kafkaProducer.Produce(ctx, msg.Key, p.topic, msg.Payload); err != nil {
				p.metrics.RecordOutboxPublish(false)
				p.logger.Error("Failed to send outbox message to Kafka",
					zap.String("message_id", msg.ID),
					zap.String("message_type", msg.MessageType),
					zap.String("topic", p.topic),
					zap.Error(err))
				return nil
			}
			if err := p.outboxRepo.UpdateMessageStatusTx(ctx, q, msg.ID, domain.OutboxStatusSent); err != nil {
				return fmt.Errorf("failed to mark outbox message %s as sent: %w", msg.ID, err)
			}
			p.metrics.RecordOutboxPublish(true)
			sent++
			p.logger.Debug("Outbox message published",
				zap.String("message_id", msg.ID),
				zap.String("aggregate_id", msg.AggregateID),
				zap.String("message_type", msg.MessageType))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if sent > 0 {
		p.logger.Info("Outbox messages published", zap.Int("count", sent), zap.String("topic", p.topic))
	}
	return sent, nil
}

func (p *Processor) fetch(ctx context.Context, q domain.Querier) ([]domain.OutboxMessage, error) {
	if p.pollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.pollTimeout)
		defer cancel()
	}
	return p.outboxRepo.GetPendingMessagesTx(ctx, q, p.batchSize)
}
