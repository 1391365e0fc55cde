package currency

import (
	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
)

type RateSource interface {
	CurrentRate(from, to domain.Currency) (decimal.Decimal, error)
}

type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert returns amount expressed in to. Converted amounts are rounded half
// up to the minor unit of the target currency; same-currency amounts are
// returned unchanged.
func (c *Converter) Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, err := c.rates.CurrentRate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMinor(amount.Mul(rate), to), nil
}

// RoundMinor rounds half up (away from zero) to the minor unit of c.
func RoundMinor(amount decimal.Decimal, c domain.Currency) decimal.Decimal {
	return amount.Round(c.MinorUnits())
}
