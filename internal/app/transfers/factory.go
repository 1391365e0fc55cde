package transfers

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
)

// Draft is an unpersisted transfer record together with the amounts the
// mutator has to move. Debit is in the sender's currency, Credit in the
// receiver's. Credit is zero for card purchases.
type Draft struct {
	Record *domain.TransferRecord
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

type DraftInput struct {
	ID          string
	Sender      *domain.Instrument
	Receiver    *domain.Instrument
	Amount      decimal.Decimal
	Converted   decimal.Decimal
	Category    domain.MerchantCategory
	Description string
	CreatedAt   time.Time
}

// AmountSource picks a purchase amount in [1, max] with two decimals.
type AmountSource interface {
	Amount(max decimal.Decimal) decimal.Decimal
}

type CategoryChooser interface {
	Category() domain.MerchantCategory
}

// Factory holds the two draft builders: DirectFactory for transfers between
// instruments and PurchaseFactory for card purchases.
type Factory struct {
	direct   *DirectFactory
	purchase *PurchaseFactory
}

func NewFactory(amounts AmountSource, categories CategoryChooser, maxPurchase decimal.Decimal) *Factory {
	return &Factory{
		direct: &DirectFactory{},
		purchase: &PurchaseFactory{
			amounts:    amounts,
			categories: categories,
			max:        maxPurchase,
		},
	}
}

func (f *Factory) Direct() *DirectFactory     { return f.direct }
func (f *Factory) Purchase() *PurchaseFactory { return f.purchase }

type DirectFactory struct{}

// Build debits Amount from the sender and credits Converted to the receiver.
// The record is denominated in the receiver's currency.
func (DirectFactory) Build(in DraftInput) (*Draft, error) {
	if in.Sender == nil || in.Receiver == nil {
		return nil, fmt.Errorf("direct transfer needs both sides: %w", domain.ErrNotFound)
	}
	receiverID := in.Receiver.ID
	return &Draft{
		Record: &domain.TransferRecord{
			ID:            in.ID,
			Kind:          domain.PaymentDirectTransfer,
			Amount:        in.Converted,
			Currency:      in.Receiver.Currency,
			DebitAmount:   in.Amount,
			DebitCurrency: in.Sender.Currency,
			Status:        domain.TransferReceived,
			Description:   in.Description,
			SenderID:      in.Sender.ID,
			ReceiverID:    &receiverID,
			CreatedAt:     in.CreatedAt,
		},
		Debit:  in.Amount,
		Credit: in.Converted,
	}, nil
}

// Denied builds the audit record left when the receiver refuses funds.
// Nothing is moved, so the record stays in the sender's currency.
func (DirectFactory) Denied(in DraftInput, reason string) *Draft {
	receiverID := in.Receiver.ID
	return &Draft{
		Record: &domain.TransferRecord{
			ID:            in.ID,
			Kind:          domain.PaymentDirectTransfer,
			Amount:        in.Amount,
			Currency:      in.Sender.Currency,
			DebitAmount:   in.Amount,
			DebitCurrency: in.Sender.Currency,
			Status:        domain.TransferDenied,
			Description:   "DENIED: " + reason,
			SenderID:      in.Sender.ID,
			ReceiverID:    &receiverID,
			CreatedAt:     in.CreatedAt,
		},
	}
}

type PurchaseFactory struct {
	amounts    AmountSource
	categories CategoryChooser
	max        decimal.Decimal
}

// Amount returns the requested amount. Without one it draws a random amount
// bounded by the configured maximum and by what the payer has available.
func (f *PurchaseFactory) Amount(requested *decimal.Decimal, available decimal.Decimal) decimal.Decimal {
	if requested != nil {
		return *requested
	}
	return f.amounts.Amount(decimal.Min(f.max, available))
}

func (f *PurchaseFactory) Category() domain.MerchantCategory {
	return f.categories.Category()
}

// DefaultDescription is used when the caller leaves the description empty.
func (f *PurchaseFactory) DefaultDescription(c domain.MerchantCategory) string {
	return "Card purchase: " + string(c)
}

// Build debits Amount from the payer. The record carries the merchant
// category instead of a receiver.
func (f *PurchaseFactory) Build(in DraftInput) (*Draft, error) {
	if in.Sender == nil {
		return nil, fmt.Errorf("card purchase needs a payer: %w", domain.ErrNotFound)
	}
	category := in.Category
	if category == "" {
		category = f.Category()
	}
	return &Draft{
		Record: &domain.TransferRecord{
			ID:               in.ID,
			Kind:             domain.PaymentCardPurchase,
			Amount:           in.Amount,
			Currency:         in.Sender.Currency,
			DebitAmount:      in.Amount,
			DebitCurrency:    in.Sender.Currency,
			Status:           domain.TransferReceived,
			Description:      in.Description,
			SenderID:         in.Sender.ID,
			MerchantCategory: &category,
			CreatedAt:        in.CreatedAt,
		},
		Debit: in.Amount,
	}, nil
}

// RandomPicker draws purchase amounts and merchant categories. It is safe
// for concurrent use.
type RandomPicker struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	categories []domain.MerchantCategory
}

func NewRandomPicker(src rand.Source) *RandomPicker {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomPicker{rnd: rand.New(src), categories: domain.MerchantCategories()}
}

func (p *RandomPicker) Amount(max decimal.Decimal) decimal.Decimal {
	maxCents := max.Shift(2).IntPart()
	if maxCents < 100 {
		return decimal.NewFromInt(1)
	}
	p.mu.Lock()
	cents := 100 + p.rnd.Int64N(maxCents-100+1)
	p.mu.Unlock()
	return decimal.New(cents, -2)
}

func (p *RandomPicker) Category() domain.MerchantCategory {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.categories[p.rnd.IntN(len(p.categories))]
}
