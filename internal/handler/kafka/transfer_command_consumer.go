package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankengine/internal/app/transfers"
	"bankengine/internal/domain"
	"bankengine/internal/domain/event"
	kafka_infra "bankengine/internal/infrastructure/kafka"
	"bankengine/internal/repository/inbox_repo"
)

const (
	CommandProcessed = "processed"
	CommandRejected  = "rejected"
	CommandDuplicate = "duplicate"
	CommandMalformed = "malformed"
	CommandRetry     = "retry"
)

type CommandRecorder interface {
	RecordCommand(outcome string)
}

type TransferCommandHandlerDeps struct {
	UnitOfWork    domain.UnitOfWork
	Inbox         inbox_repo.InboxRepository
	Service       transfers.Service
	ConsumerGroup string
	Metrics       CommandRecorder
	Now           func() time.Time
	// RateAttempts bounds how often a command waiting for a missing
	// exchange rate is handled before it is marked FAILED.
	RateAttempts  int
}

const defaultRateAttempts = 5

// rateAttempts counts commands that failed on a missing exchange rate.
type rateAttempts struct {
	mu    sync.Mutex
	limit int
	seen  map[string]int
}

// exhausted records one more failed attempt for id and reports whether the
// limit is reached.
func (r *rateAttempts) exhausted(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[id]+1 >= r.limit {
		delete(r.seen, id)
		return true
	}
	r.seen[id]++
	return false
}

func (r *rateAttempts) forget(id string) {
	r.mu.Lock()
	delete(r.seen, id)
	r.mu.Unlock()
}

// retryable reports whether err may go away when the command is handled
// again. Everything else is committed as a FAILED inbox row.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrPersistenceFailure) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// TransferCommandMessageHandler executes transfer commands exactly once. The
// inbox row and the transfer share one transaction: a rejected command is
// committed as FAILED, a storage failure rolls both back and the message is
// handled again. A missing exchange rate is retried RateAttempts times.
func TransferCommandMessageHandler(deps TransferCommandHandlerDeps, logger *zap.Logger) kafka_infra.MessageHandler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RateAttempts < 1 {
		deps.RateAttempts = defaultRateAttempts
	}
	rates := &rateAttempts{limit: deps.RateAttempts, seen: make(map[string]int)}

	return func(ctx context.Context, msg kafka.Message) error {
		logger.Debug("Received transfer command",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.String("key", string(msg.Key)),
		)

		var cmd event.TransferCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil || strings.TrimSpace(cmd.RequestID) == "" {
			deps.Metrics.RecordCommand(CommandMalformed)
			logger.Error("Dropping malformed transfer command",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			return nil
		}

		var outcome string
		err := deps.UnitOfWork.RunInTransaction(ctx, func(ctx context.Context, q domain.Querier) error {
			inboxMsg := &domain.InboxMessage{
				ID:             cmd.RequestID,
				KafkaTopic:     msg.Topic,
				KafkaPartition: msg.Partition,
				KafkaOffset:    msg.Offset,
				ConsumerGroup:  deps.ConsumerGroup,
				Payload:        msg.Value,
				Status:         domain.InboxStatusNew,
				ReceivedAt:     deps.Now().UTC(),
			}
			if err := deps.Inbox.CreateMessageTx(ctx, q, inboxMsg); err != nil {
				if errors.Is(err, inbox_repo.ErrMessageAlreadyProcessed) {
					outcome = CommandDuplicate
					return nil
				}
				return fmt.Errorf("failed to store inbox message %s: %w", cmd.RequestID, err)
			}

			record, execErr := execute(ctx, deps.Service, cmd)
			if execErr != nil && retryable(execErr) {
				return execErr
			}
			if errors.Is(execErr, domain.ErrRateUnavailable) && !rates.exhausted(cmd.RequestID) {
				return execErr
			}

			status, errMsg := domain.InboxStatusProcessed, ""
			outcome = CommandProcessed
			if execErr != nil {
				status, errMsg = domain.InboxStatusFailed, domain.ErrorCode(execErr)+": "+execErr.Error()
				outcome = CommandRejected
			}
			if err := deps.Inbox.UpdateStatusTx(ctx, q, cmd.RequestID, status, errMsg); err != nil {
				return fmt.Errorf("failed to update inbox message %s: %w", cmd.RequestID, err)
			}

			fields := []zap.Field{zap.String("request_id", cmd.RequestID), zap.String("kind", cmd.Kind)}
			if record != nil {
				fields = append(fields, zap.String("transfer_id", record.ID), zap.String("status", string(record.Status)))
			}
			if execErr != nil {
				logger.Warn("Transfer command rejected", append(fields, zap.Error(execErr))...)
			} else {
				logger.Info("Transfer command processed", fields...)
			}
			return nil
		})
		if err != nil {
			deps.Metrics.RecordCommand(CommandRetry)
			return fmt.Errorf("failed to process transfer command %s: %w", cmd.RequestID, err)
		}

		rates.forget(cmd.RequestID)
		if outcome == CommandDuplicate {
			logger.Info("Transfer command already processed, skipping", zap.String("request_id", cmd.RequestID))
		}
		deps.Metrics.RecordCommand(outcome)
		return nil
	}
}

func execute(ctx context.Context, svc transfers.Service, cmd event.TransferCommand) (*domain.TransferRecord, error) {
	var amount *decimal.Decimal
	if cmd.Amount != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*cmd.Amount))
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", *cmd.Amount, domain.ErrInvalidAmount)
		}
		amount = &parsed
	}

	switch domain.PaymentKind(cmd.Kind) {
	case domain.PaymentDirectTransfer:
		if amount == nil {
			return nil, fmt.Errorf("direct transfer without amount: %w", domain.ErrInvalidAmount)
		}
		return svc.Transfer(ctx, transfers.DirectTransferRequest{
			SenderID:    cmd.SenderID,
			ReceiverKey: cmd.ReceiverKey,
			Amount:      *amount,
			Description: cmd.Description,
		})
	case domain.PaymentCardPurchase:
		return svc.Purchase(ctx, transfers.CardPurchaseRequest{
			PayerID:     cmd.SenderID,
			Amount:      amount,
			Description: cmd.Description,
		})
	}
	return nil, fmt.Errorf("unknown transfer kind %q: %w", cmd.Kind, domain.ErrInvalidState)
}
