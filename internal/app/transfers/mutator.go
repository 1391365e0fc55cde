package transfers

import (
	"context"
	"fmt"
	"time"

	"bankengine/internal/domain"
	"bankengine/internal/outbox"
	"bankengine/internal/repository/instruments_repo"
	"bankengine/internal/repository/outbox_repo"
	"bankengine/internal/repository/transfers_repo"
	"bankengine/internal/util"
)

// Mutator applies a draft on the caller's transaction. It never commits;
// a returned error means the transaction must be rolled back.
type Mutator struct {
	instruments instruments_repo.InstrumentRepository
	transfers   transfers_repo.TransferRepository
	outbox      outbox_repo.OutboxRepository
	ids         util.IDGenerator
	now         func() time.Time
}

func NewMutator(
	instruments instruments_repo.InstrumentRepository,
	transfers transfers_repo.TransferRepository,
	outboxRepo outbox_repo.OutboxRepository,
	ids util.IDGenerator,
	now func() time.Time,
) *Mutator {
	return &Mutator{
		instruments: instruments,
		transfers:   transfers,
		outbox:      outboxRepo,
		ids:         ids,
		now:         now,
	}
}

// Apply debits the sender, credits the receiver when there is one, and stores
// both balances, the RECEIVED record and its outbox event. sender and
// receiver are only updated in place once every write succeeded, so a retry
// after domain.ErrDuplicateReference starts from the original balances.
func (m *Mutator) Apply(ctx context.Context, q domain.Querier, draft *Draft, sender, receiver *domain.Instrument) error {
	nextSender := *sender
	if err := nextSender.Debit(draft.Debit); err != nil {
		return err
	}
	var nextReceiver *domain.Instrument
	if receiver != nil {
		copied := *receiver
		nextReceiver = &copied
		if err := nextReceiver.Credit(draft.Credit); err != nil {
			return err
		}
	}

	draft.Record.Status = domain.TransferReceived
	if err := m.transfers.CreateTx(ctx, q, draft.Record); err != nil {
		return err
	}
	if err := m.instruments.UpdateBalanceTx(ctx, q, &nextSender); err != nil {
		return err
	}
	if nextReceiver != nil {
		if err := m.instruments.UpdateBalanceTx(ctx, q, nextReceiver); err != nil {
			return err
		}
	}
	if err := m.enqueue(ctx, q, draft.Record, ""); err != nil {
		return err
	}

	*sender = nextSender
	if nextReceiver != nil {
		*receiver = *nextReceiver
	}
	return nil
}

// RecordDenied stores a DENIED record and its event. No balance changes.
func (m *Mutator) RecordDenied(ctx context.Context, q domain.Querier, draft *Draft, reason string) error {
	draft.Record.Status = domain.TransferDenied
	if err := m.transfers.CreateTx(ctx, q, draft.Record); err != nil {
		return err
	}
	return m.enqueue(ctx, q, draft.Record, reason)
}

func (m *Mutator) enqueue(ctx context.Context, q domain.Querier, rec *domain.TransferRecord, reason string) error {
	msg, err := outbox.NewTransferMessage(m.ids.NewID(), rec, reason, m.now().UTC())
	if err != nil {
		return err
	}
	if err := m.outbox.CreateMessageTx(ctx, q, msg); err != nil {
		return fmt.Errorf("failed to enqueue event for transfer %s: %w", rec.ID, err)
	}
	return nil
}
