package inbox_repo

import (
	"context"
	"fmt"
	"time"

	"bankengine/internal/domain"
)

type inboxRepository struct{}

func NewInboxRepository() *inboxRepository {
	return &inboxRepository{}
}

// CreateMessageTx records a command by its request id. A second delivery of
// the same request returns ErrMessageAlreadyProcessed.
func (r *inboxRepository) CreateMessageTx(ctx context.Context, querier domain.Querier, msg *domain.InboxMessage) error {
	query := `
		INSERT INTO inbox_messages (id, kafka_topic, kafka_partition, kafka_offset, consumer_group, payload, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := querier.ExecContext(ctx, query,
		msg.ID,
		msg.KafkaTopic,
		msg.KafkaPartition,
		msg.KafkaOffset,
		msg.ConsumerGroup,
		msg.Payload,
		msg.Status,
		msg.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inbox message %s: %w", msg.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for inbox insert: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("inbox message %s: %w", msg.ID, ErrMessageAlreadyProcessed)
	}
	return nil
}

func (r *inboxRepository) UpdateStatusTx(ctx context.Context, querier domain.Querier, id string, status domain.InboxMessageStatus, errMsg string) error {
	query := `
		UPDATE inbox_messages
		SET status = $1, error = NULLIF($2, ''), processed_at = $3
		WHERE id = $4
	`
	res, err := querier.ExecContext(ctx, query, string(status), errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update inbox message status %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for inbox message update: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("inbox message %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
