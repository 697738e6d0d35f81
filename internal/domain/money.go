package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) Mul(quantity int32) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

func (m Money) Add(other Money) Money {
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}
}

// SubunitAmount returns the amount in the currency's minor unit, i.e. kobo for
// NGN or cents for USD. Payment providers expect integer subunits.
func (m Money) SubunitAmount() int64 {
	return m.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}
