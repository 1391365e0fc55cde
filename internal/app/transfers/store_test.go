package transfers_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
)

// memoryStore serializes transactions and restores a snapshot of its data
// when one fails.
type memoryStore struct {
	txMu sync.Mutex

	mu          sync.Mutex
	instruments map[string]domain.Instrument
	transfers   map[string]domain.TransferRecord
	outbox      []domain.OutboxMessage

	// failUpdate, when set, is returned by UpdateBalanceTx.
	failUpdate error
}

func newMemoryStore(instruments ...domain.Instrument) *memoryStore {
	s := &memoryStore{
		instruments: make(map[string]domain.Instrument),
		transfers:   make(map[string]domain.TransferRecord),
	}
	for _, inst := range instruments {
		s.instruments[inst.ID] = inst
	}
	return s
}

type storeState struct {
	instruments map[string]domain.Instrument
	transfers   map[string]domain.TransferRecord
	outbox      []domain.OutboxMessage
}

func (s *memoryStore) state() storeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeState{
		instruments: maps.Clone(s.instruments),
		transfers:   maps.Clone(s.transfers),
		outbox:      slices.Clone(s.outbox),
	}
}

func (s *memoryStore) restore(st storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instruments = st.instruments
	s.transfers = st.transfers
	s.outbox = st.outbox
}

// RunInTransaction runs one transaction at a time. That stands in for the
// row locks of LockByIDsTx, so tests on this store check the engine's
// arithmetic under concurrent callers but not the lock ordering itself.
func (s *memoryStore) RunInTransaction(ctx context.Context, fn domain.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	before := s.state()
	if err := fn(ctx, nil); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

func (s *memoryStore) balance(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instruments[id].Balance
}

func (s *memoryStore) records() []domain.TransferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TransferRecord, 0, len(s.transfers))
	for _, rec := range s.transfers {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memoryStore) messages() []domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

// instrument repository

type memoryInstruments struct{ s *memoryStore }

func (r memoryInstruments) CreateTx(_ context.Context, _ domain.Querier, inst *domain.Instrument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.instruments[inst.ID] = *inst
	return nil
}

func (r memoryInstruments) GetByIDTx(_ context.Context, _ domain.Querier, id string) (*domain.Instrument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inst, ok := r.s.instruments[id]
	if !ok {
		return nil, fmt.Errorf("instrument %s: %w", id, domain.ErrNotFound)
	}
	return &inst, nil
}

func (r memoryInstruments) GetByNumberTx(_ context.Context, _ domain.Querier, number string) (*domain.Instrument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inst := range r.s.instruments {
		if inst.Number == number {
			return &inst, nil
		}
	}
	return nil, fmt.Errorf("instrument number %s: %w", number, domain.ErrNotFound)
}

func (r memoryInstruments) LockByIDsTx(_ context.Context, _ domain.Querier, ids []string) ([]*domain.Instrument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sorted := slices.Sorted(slices.Values(ids))
	out := make([]*domain.Instrument, 0, len(sorted))
	for _, id := range sorted {
		if inst, ok := r.s.instruments[id]; ok {
			out = append(out, &inst)
		}
	}
	return out, nil
}

func (r memoryInstruments) UpdateBalanceTx(_ context.Context, _ domain.Querier, inst *domain.Instrument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	if inst.Balance.IsNegative() {
		return errors.New("balance check constraint violated")
	}
	stored, ok := r.s.instruments[inst.ID]
	if !ok {
		return fmt.Errorf("instrument %s: %w", inst.ID, domain.ErrNotFound)
	}
	stored.Balance = inst.Balance
	stored.UpdatedAt = time.Now()
	r.s.instruments[inst.ID] = stored
	return nil
}

// transfer repository

type memoryTransfers struct{ s *memoryStore }

func (r memoryTransfers) CreateTx(_ context.Context, _ domain.Querier, rec *domain.TransferRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transfers {
		if existing.ReferenceNumber == rec.ReferenceNumber {
			return fmt.Errorf("reference %s: %w", rec.ReferenceNumber, domain.ErrDuplicateReference)
		}
	}
	r.s.transfers[rec.ID] = *rec
	return nil
}

func (r memoryTransfers) ExistsReferenceNumberTx(_ context.Context, _ domain.Querier, reference string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transfers {
		if existing.ReferenceNumber == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r memoryTransfers) GetByIDTx(_ context.Context, _ domain.Querier, id string) (*domain.TransferRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	return &rec, nil
}

func (r memoryTransfers) GetByReferenceTx(_ context.Context, _ domain.Querier, reference string) (*domain.TransferRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.transfers {
		if rec.ReferenceNumber == reference {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("transfer reference %s: %w", reference, domain.ErrNotFound)
}

// outbox repository

type memoryOutbox struct{ s *memoryStore }

func (r memoryOutbox) CreateMessageTx(_ context.Context, _ domain.Querier, msg *domain.OutboxMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, *msg)
	return nil
}

func (r memoryOutbox) GetPendingMessagesTx(_ context.Context, _ domain.Querier, limit int) ([]domain.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.OutboxMessage
	for _, msg := range r.s.outbox {
		if msg.Status == domain.OutboxStatusPending && len(out) < limit {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r memoryOutbox) UpdateMessageStatusTx(_ context.Context, _ domain.Querier, id string, status domain.OutboxMessageStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("outbox message %s: %w", id, domain.ErrNotFound)
}
