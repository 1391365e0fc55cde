package currency

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
)

const rateDivisionPrecision = 12

// Snapshot is an immutable set of exchange rates against Base. Rates[X] is
// the number of units of X one unit of Base buys.
type Snapshot struct {
	Base      domain.Currency
	Rates     map[domain.Currency]decimal.Decimal
	FetchedAt time.Time
}

// NewSnapshot copies rates so the caller cannot mutate a published snapshot.
// The base currency always has rate 1.
func NewSnapshot(base domain.Currency, rates map[domain.Currency]decimal.Decimal, fetchedAt time.Time) (*Snapshot, error) {
	copied := make(map[domain.Currency]decimal.Decimal, len(rates)+1)
	for c, r := range rates {
		if !c.Valid() {
			continue
		}
		if !r.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", c, r)
		}
		copied[c] = r
	}
	copied[base] = decimal.NewFromInt(1)
	return &Snapshot{Base: base, Rates: copied, FetchedAt: fetchedAt}, nil
}

// Rate returns the multiplier converting an amount in from into to.
func (s *Snapshot) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	fromRate, ok := s.Rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate against %s: %w", from, s.Base, domain.ErrRateUnavailable)
	}
	toRate, ok := s.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate against %s: %w", to, s.Base, domain.ErrRateUnavailable)
	}
	return toRate.DivRound(fromRate, rateDivisionPrecision), nil
}

// RateTable holds the current snapshot. Swap publishes a new one atomically
// and readers never wait for a refresh.
type RateTable struct {
	current atomic.Pointer[Snapshot]
}

func NewRateTable() *RateTable {
	return &RateTable{}
}

func (t *RateTable) Swap(s *Snapshot) *Snapshot {
	return t.current.Swap(s)
}

// Current may return nil before the first refresh.
func (t *RateTable) Current() *Snapshot {
	return t.current.Load()
}

func (t *RateTable) CurrentRate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	s := t.current.Load()
	if s == nil {
		return decimal.Zero, fmt.Errorf("rate table is empty: %w", domain.ErrRateUnavailable)
	}
	return s.Rate(from, to)
}
