package domain

import (
	"fmt"
	"strings"
)

type Currency string

const (
	CZK Currency = "CZK"
	USD Currency = "USD"
	EUR Currency = "EUR"
	PLN Currency = "PLN"
	UAH Currency = "UAH"
)

var supportedCurrencies = []Currency{CZK, USD, EUR, PLN, UAH}

func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedCurrency)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	for _, sc := range supportedCurrencies {
		if c == sc {
			return true
		}
	}
	return false
}

// MinorUnits is the number of decimal places amounts in c are kept at.
func (c Currency) MinorUnits() int32 {
	return 2
}

func (c Currency) String() string { return string(c) }
