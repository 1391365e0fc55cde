package transfers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankengine/internal/domain"
	"bankengine/internal/metrics"
	"bankengine/internal/repository/instruments_repo"
	"bankengine/internal/repository/outbox_repo"
	"bankengine/internal/repository/transfers_repo"
	"bankengine/internal/util"
)

type Service interface {
	// Transfer moves money between two instruments. When the receiver is
	// blocked the DENIED record is returned together with an error wrapping
	// domain.ErrInvalidState.
	Transfer(ctx context.Context, req DirectTransferRequest) (*domain.TransferRecord, error)
	Purchase(ctx context.Context, req CardPurchaseRequest) (*domain.TransferRecord, error)
	GetTransfer(ctx context.Context, id string) (*domain.TransferRecord, error)
	GetTransferByReference(ctx context.Context, reference string) (*domain.TransferRecord, error)
	GetInstrument(ctx context.Context, id string) (*domain.Instrument, error)
}

type Converter interface {
	Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error)
}

type Recorder interface {
	RecordTransfer(kind, outcome, code string, duration time.Duration)
}

type Dependencies struct {
	// DB serves reads outside of a transaction.
	DB          domain.Querier
	UnitOfWork  domain.UnitOfWork
	Instruments instruments_repo.InstrumentRepository
	Transfers   transfers_repo.TransferRepository
	Outbox      outbox_repo.OutboxRepository
	Converter   Converter
	References  util.ReferenceGenerator
	IDs         util.IDGenerator
	Amounts     AmountSource
	Categories  CategoryChooser
	Metrics     Recorder
}

type Options struct {
	ReferenceMaxAttempts int
	RecordDenied         bool
	TxTimeout            time.Duration
	PurchaseMaxAmount    decimal.Decimal
	Now                  func() time.Time
}

type transferService struct {
	deps      Dependencies
	opts      Options
	validator *Validator
	factory   *Factory
	mutator   *Mutator
	logger    *zap.Logger
}

func NewTransferService(deps Dependencies, opts Options, logger *zap.Logger) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ReferenceMaxAttempts < 1 {
		opts.ReferenceMaxAttempts = 1
	}
	return &transferService{
		deps:      deps,
		opts:      opts,
		validator: NewValidator(opts.Now),
		factory:   NewFactory(deps.Amounts, deps.Categories, opts.PurchaseMaxAmount),
		mutator:   NewMutator(deps.Instruments, deps.Transfers, deps.Outbox, deps.IDs, opts.Now),
		logger:    logger,
	}
}

func (s *transferService) Transfer(ctx context.Context, req DirectTransferRequest) (*domain.TransferRecord, error) {
	start := time.Now()
	var (
		record    *domain.TransferRecord
		deniedErr error
	)

	err := s.inTransaction(ctx, func(ctx context.Context, q domain.Querier) error {
		rec, err := s.transferTx(ctx, q, req)
		var denied *DeniedError
		if rec != nil && errors.As(err, &denied) {
			// Commit the DENIED record, report the denial afterwards.
			record, deniedErr = rec, err
			return nil
		}
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		record = nil
	} else if deniedErr != nil {
		err = deniedErr
	}

	s.finish(domain.PaymentDirectTransfer, start, record, err,
		zap.String("sender_id", req.SenderID),
		zap.String("receiver_key", req.ReceiverKey),
		zap.String("amount", req.Amount.String()),
	)
	return record, err
}

func (s *transferService) Purchase(ctx context.Context, req CardPurchaseRequest) (*domain.TransferRecord, error) {
	start := time.Now()
	var record *domain.TransferRecord

	err := s.inTransaction(ctx, func(ctx context.Context, q domain.Querier) error {
		rec, err := s.purchaseTx(ctx, q, req)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		record = nil
	}

	fields := []zap.Field{zap.String("sender_id", req.PayerID)}
	if req.Amount != nil {
		fields = append(fields, zap.String("amount", req.Amount.String()))
	}
	s.finish(domain.PaymentCardPurchase, start, record, err, fields...)
	return record, err
}

func (s *transferService) transferTx(ctx context.Context, q domain.Querier, req DirectTransferRequest) (*domain.TransferRecord, error) {
	receiverID, err := s.resolveReceiver(ctx, q, req.ReceiverKey)
	if err != nil {
		return nil, err
	}
	locked, err := s.lock(ctx, q, req.SenderID, receiverID)
	if err != nil {
		return nil, err
	}
	sender := locked[req.SenderID]
	receiver := locked[receiverID]

	v := s.validator
	if err := v.CheckSender(sender, req.SenderID); err != nil {
		return nil, err
	}
	amount := v.NormalizeAmount(req.Amount, sender.Currency)
	if err := v.CheckAmount(amount); err != nil {
		return nil, err
	}
	if err := v.CheckFunds(sender, amount); err != nil {
		return nil, err
	}
	if err := v.CheckReceiver(sender, receiver, req.ReceiverKey); err != nil {
		var denied *DeniedError
		if errors.As(err, &denied) && s.opts.RecordDenied {
			return s.recordDenied(ctx, q, sender, receiver, amount, denied)
		}
		return nil, err
	}
	if err := v.CheckCurrencies(sender, receiver); err != nil {
		return nil, err
	}
	description, err := v.CheckDescription(req.Description)
	if err != nil {
		return nil, err
	}

	credit, err := s.deps.Converter.Convert(amount, sender.Currency, receiver.Currency)
	if err != nil {
		return nil, err
	}
	if !credit.IsPositive() {
		return nil, fmt.Errorf("%s %s converts to %s %s: %w",
			amount, sender.Currency, credit, receiver.Currency, domain.ErrInvalidAmount)
	}

	draft, err := s.factory.Direct().Build(DraftInput{
		ID:          s.deps.IDs.NewID(),
		Sender:      sender,
		Receiver:    receiver,
		Amount:      amount,
		Converted:   credit,
		Description: description,
		CreatedAt:   s.opts.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.withReference(ctx, q, draft, func() error {
		return s.mutator.Apply(ctx, q, draft, sender, receiver)
	}); err != nil {
		return nil, err
	}
	return draft.Record, nil
}

func (s *transferService) purchaseTx(ctx context.Context, q domain.Querier, req CardPurchaseRequest) (*domain.TransferRecord, error) {
	locked, err := s.lock(ctx, q, req.PayerID)
	if err != nil {
		return nil, err
	}
	payer := locked[req.PayerID]

	v := s.validator
	if err := v.CheckSender(payer, req.PayerID); err != nil {
		return nil, err
	}
	if payer.Kind != domain.InstrumentCard {
		return nil, fmt.Errorf("instrument %s is a %s, purchases need a card: %w", payer.ID, payer.Kind, domain.ErrInvalidState)
	}

	purchase := s.factory.Purchase()
	amount := v.NormalizeAmount(purchase.Amount(req.Amount, payer.Balance), payer.Currency)
	if err := v.CheckAmount(amount); err != nil {
		return nil, err
	}
	if err := v.CheckFunds(payer, amount); err != nil {
		return nil, err
	}

	category := purchase.Category()
	rawDescription := req.Description
	if strings.TrimSpace(rawDescription) == "" {
		rawDescription = purchase.DefaultDescription(category)
	}
	description, err := v.CheckDescription(rawDescription)
	if err != nil {
		return nil, err
	}

	draft, err := purchase.Build(DraftInput{
		ID:          s.deps.IDs.NewID(),
		Sender:      payer,
		Amount:      amount,
		Category:    category,
		Description: description,
		CreatedAt:   s.opts.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.withReference(ctx, q, draft, func() error {
		return s.mutator.Apply(ctx, q, draft, payer, nil)
	}); err != nil {
		return nil, err
	}
	return draft.Record, nil
}

// recordDenied returns the stored DENIED record together with denied.
func (s *transferService) recordDenied(
	ctx context.Context,
	q domain.Querier,
	sender, receiver *domain.Instrument,
	amount decimal.Decimal,
	denied *DeniedError,
) (*domain.TransferRecord, error) {
	draft := s.factory.Direct().Denied(DraftInput{
		ID:        s.deps.IDs.NewID(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		CreatedAt: s.opts.Now().UTC(),
	}, denied.Reason)

	if err := s.withReference(ctx, q, draft, func() error {
		return s.mutator.RecordDenied(ctx, q, draft, denied.Reason)
	}); err != nil {
		return nil, err
	}
	return draft.Record, denied
}

// withReference assigns a fresh reference number to draft and runs write.
// A reference taken between the existence check and the insert costs one
// more attempt.
func (s *transferService) withReference(ctx context.Context, q domain.Querier, draft *Draft, write func() error) error {
	attempts := 0
	for {
		ref, err := s.nextReference(ctx, q, &attempts)
		if err != nil {
			return err
		}
		draft.Record.ReferenceNumber = ref

		err = write()
		if errors.Is(err, domain.ErrDuplicateReference) {
			s.logger.Warn("Reference number taken at insert, regenerating",
				zap.String("reference_number", ref),
				zap.Int("attempt", attempts),
			)
			continue
		}
		return persistence("failed to persist transfer", err)
	}
}

func (s *transferService) nextReference(ctx context.Context, q domain.Querier, attempts *int) (string, error) {
	for *attempts < s.opts.ReferenceMaxAttempts {
		*attempts++
		ref := s.deps.References.Generate()
		if ref == "" || len(ref) > domain.MaxReferenceNumberLength {
			continue
		}
		exists, err := s.deps.Transfers.ExistsReferenceNumberTx(ctx, q, ref)
		if err != nil {
			return "", persistence("failed to check reference number", err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free reference number after %d attempts: %w", *attempts, domain.ErrInvalidReferenceNumber)
}

// resolveReceiver maps a card/account number or an instrument id onto an
// instrument id without locking it. An unknown key yields "".
func (s *transferService) resolveReceiver(ctx context.Context, q domain.Querier, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	inst, err := s.deps.Instruments.GetByNumberTx(ctx, q, key)
	if err == nil {
		return inst.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", persistence("failed to resolve receiver", err)
	}
	if uuid.Validate(key) != nil {
		return "", nil
	}
	inst, err = s.deps.Instruments.GetByIDTx(ctx, q, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", persistence("failed to resolve receiver", err)
	}
	return inst.ID, nil
}

// lock row-locks the given instruments in ascending id order, so two
// opposite transfers between the same pair cannot deadlock.
func (s *transferService) lock(ctx context.Context, q domain.Querier, ids ...string) (map[string]*domain.Instrument, error) {
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(unique, id) {
			continue
		}
		unique = append(unique, id)
	}
	slices.Sort(unique)

	instruments, err := s.deps.Instruments.LockByIDsTx(ctx, q, unique)
	if err != nil {
		return nil, persistence("failed to lock instruments", err)
	}
	locked := make(map[string]*domain.Instrument, len(instruments))
	for _, inst := range instruments {
		locked[inst.ID] = inst
	}
	return locked, nil
}

func (s *transferService) inTransaction(ctx context.Context, fn domain.TxFunc) error {
	if s.opts.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.TxTimeout)
		defer cancel()
	}
	return s.deps.UnitOfWork.RunInTransaction(ctx, fn)
}

func (s *transferService) finish(kind domain.PaymentKind, start time.Time, record *domain.TransferRecord, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	code := domain.ErrorCode(err)

	switch {
	case err == nil:
		s.deps.Metrics.RecordTransfer(string(kind), metrics.OutcomeSuccess, "", elapsed)
		s.logger.Info("Transfer completed", append(fields,
			zap.String("kind", string(kind)),
			zap.String("transfer_id", record.ID),
			zap.String("reference_number", record.ReferenceNumber),
			zap.String("amount", record.Amount.String()),
			zap.String("currency", string(record.Currency)),
		)...)
	case record != nil:
		s.deps.Metrics.RecordTransfer(string(kind), metrics.OutcomeDenied, code, elapsed)
		s.logger.Warn("Transfer denied", append(fields,
			zap.String("kind", string(kind)),
			zap.String("transfer_id", record.ID),
			zap.String("reference_number", record.ReferenceNumber),
			zap.Error(err),
		)...)
	case domain.IsValidationError(err) || errors.Is(err, domain.ErrRateUnavailable):
		s.deps.Metrics.RecordTransfer(string(kind), metrics.OutcomeDenied, code, elapsed)
		s.logger.Warn("Transfer rejected", append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
	default:
		s.deps.Metrics.RecordTransfer(string(kind), metrics.OutcomeFailure, code, elapsed)
		s.logger.Error("Transfer failed", append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
	}
}

func (s *transferService) GetTransfer(ctx context.Context, id string) (*domain.TransferRecord, error) {
	rec, err := s.deps.Transfers.GetByIDTx(ctx, s.deps.DB, id)
	if err != nil {
		return nil, persistence("failed to get transfer", err)
	}
	return rec, nil
}

func (s *transferService) GetTransferByReference(ctx context.Context, reference string) (*domain.TransferRecord, error) {
	rec, err := s.deps.Transfers.GetByReferenceTx(ctx, s.deps.DB, reference)
	if err != nil {
		return nil, persistence("failed to get transfer by reference", err)
	}
	return rec, nil
}

func (s *transferService) GetInstrument(ctx context.Context, id string) (*domain.Instrument, error) {
	inst, err := s.deps.Instruments.GetByIDTx(ctx, s.deps.DB, id)
	if err != nil {
		return nil, persistence("failed to get instrument", err)
	}
	return inst, nil
}

// persistence classifies storage errors. Errors that already belong to the
// transfer taxonomy are returned unchanged.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.ErrorCode(err) != domain.CodeInternal {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceFailure, err)
}
