package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"bankengine/internal/domain"
	"bankengine/internal/mocks"
	"bankengine/internal/outbox"
)

type publishCounter struct {
	ok, failed int
}

func (c *publishCounter) RecordOutboxPublish(ok bool) {
	if ok {
		c.ok++
		return
	}
	c.failed++
}

type processorFixture struct {
	uow      *mocks.MockUnitOfWork
	repo     *mocks.MockOutboxRepository
	producer *mocks.MockProducer
	counter  *publishCounter
	proc     *outbox.Processor
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &processorFixture{
		uow:      mocks.NewMockUnitOfWork(ctrl),
		repo:     mocks.NewMockOutboxRepository(ctrl),
		producer: mocks.NewMockProducer(ctrl),
		counter:  &publishCounter{},
	}
	f.uow.EXPECT().RunInTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn domain.TxFunc) error {
			return fn(ctx, nil)
		}).AnyTimes()
	f.proc = outbox.NewProcessor(f.uow, f.repo, f.producer, "transfer_events", 0, 0, 10, f.counter, zap.NewNop())
	return f
}

func pending(ids ...string) []domain.OutboxMessage {
	out := make([]domain.OutboxMessage, len(ids))
	for i, id := range ids {
		out[i] = domain.OutboxMessage{
			ID:          id,
			AggregateID: "tr-" + id,
			MessageType: "transfer.received",
			Key:         "sender-1",
			Payload:     []byte(`{"transfer_id":"tr-` + id + `"}`),
			Status:      domain.OutboxStatusPending,
		}
	}
	return out
}

func TestPublishPending_SendsAndMarksEveryMessage(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	f.repo.EXPECT().GetPendingMessagesTx(gomock.Any(), gomock.Any(), 10).Return(pending("m1", "m2"), nil)
	gomock.InOrder(
		f.producer.EXPECT().Produce(gomock.Any(), "sender-1", "transfer_events", []byte(`{"transfer_id":"tr-m1"}`)).Return(nil),
		f.repo.EXPECT().UpdateMessageStatusTx(gomock.Any(), gomock.Any(), "m1", domain.OutboxStatusSent).Return(nil),
		f.producer.EXPECT().Produce(gomock.Any(), "sender-1", "transfer_events", []byte(`{"transfer_id":"tr-m2"}`)).Return(nil),
		f.repo.EXPECT().UpdateMessageStatusTx(gomock.Any(), gomock.Any(), "m2", domain.OutboxStatusSent).Return(nil),
	)

	sent, err := f.proc.PublishPending(ctx)
	if err != nil {
		t.Fatalf("PublishPending returned error: %v", err)
	}
	if sent != 2 || f.counter.ok != 2 || f.counter.failed != 0 {
		t.Fatalf("sent=%d ok=%d failed=%d, want 2/2/0", sent, f.counter.ok, f.counter.failed)
	}
}

func TestPublishPending_StopsAtFirstFailedSend(t *testing.T) {
	f := newProcessorFixture(t)

	f.repo.EXPECT().GetPendingMessagesTx(gomock.Any(), gomock.Any(), 10).Return(pending("m1", "m2", "m3"), nil)
	f.producer.EXPECT().Produce(gomock.Any(), "sender-1", "transfer_events", gomock.Any()).Return(nil)
	f.repo.EXPECT().UpdateMessageStatusTx(gomock.Any(), gomock.Any(), "m1", domain.OutboxStatusSent).Return(nil)
	f.producer.EXPECT().Produce(gomock.Any(), "sender-1", "transfer_events", gomock.Any()).Return(errors.New("broker down"))

	sent, err := f.proc.PublishPending(context.Background())
	if err != nil {
		t.Fatalf("a failed send should keep the batch committed, got %v", err)
	}
	if sent != 1 || f.counter.ok != 1 || f.counter.failed != 1 {
		t.Fatalf("sent=%d ok=%d failed=%d, want 1/1/1", sent, f.counter.ok, f.counter.failed)
	}
}

func TestPublishPending_EmptyOutbox(t *testing.T) {
	f := newProcessorFixture(t)
	f.repo.EXPECT().GetPendingMessagesTx(gomock.Any(), gomock.Any(), 10).Return(nil, nil)

	sent, err := f.proc.PublishPending(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("PublishPending = (%d, %v), want (0, nil)", sent, err)
	}
}

func TestPublishPending_StatusUpdateFailureAbortsTransaction(t *testing.T) {
	f := newProcessorFixture(t)
	updateErr := errors.New("connection reset")

	f.repo.EXPECT().GetPendingMessagesTx(gomock.Any(), gomock.Any(), 10).Return(pending("m1"), nil)
	f.producer.EXPECT().Produce(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().UpdateMessageStatusTx(gomock.Any(), gomock.Any(), "m1", domain.OutboxStatusSent).Return(updateErr)

	sent, err := f.proc.PublishPending(context.Background())
	if !errors.Is(err, updateErr) {
		t.Fatalf("expected the update error, got %v", err)
	}
	if sent != 0 {
		t.Fatalf("sent = %d, want 0 after rollback", sent)
	}
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	f := newProcessorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := outbox.NewProcessor(f.uow, f.repo, f.producer, "transfer_events", time.Hour, 0, 10, f.counter, zap.NewNop())
	if err := proc.Start(ctx); err != nil {
		t.Fatalf("Start returned %v", err)
	}
}
