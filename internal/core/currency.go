package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	INR Currency = "INR"
	DKK Currency = "DKK"
	NOK Currency = "NOK"
)

// Pivot is the reference currency every rate is expressed against.
const Pivot = USD

var ErrUnknownCurrency = errors.New("unknown currency")

// rates are units of the currency per one USD.
var rates = map[Currency]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	EUR: decimal.RequireFromString("0.92"),
	INR: decimal.RequireFromString("83.5"),
	DKK: decimal.RequireFromString("6.85"),
	NOK: decimal.RequireFromString("10.65"),
}

// Currencies returns the supported currencies in display order.
func Currencies() []Currency {
	return []Currency{USD, EUR, INR, DKK, NOK}
}

// ParseCurrency validates a user or configuration supplied code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

func (c Currency) IsValid() bool {
	_, ok := rates[c]
	return ok
}

func (c Currency) String() string { return string(c) }

// Rate returns the fixed rate of c relative to the pivot currency.
func Rate(c Currency) decimal.Decimal {
	r, ok := rates[c]
	if !ok {
		panic("core: no rate for currency " + string(c))
	}
	return r
}

// Convert converts amount from one currency to another through the pivot.
// Same-currency conversion returns amount untouched. Unknown currencies are a
// programming error and panic; validate input with ParseCurrency.
func Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Div(Rate(from)).Mul(Rate(to))
}

// moneyCurrency returns the go-money definition, never nil for the supported set.
func moneyCurrency(c Currency) *money.Currency {
	Rate(c) // panics on unsupported codes
	mc := money.GetCurrency(string(c))
	if mc == nil {
		panic("core: no formatting data for currency " + string(c))
	}
	return mc
}

// Format renders amount with the currency's grouping, decimal mark, symbol
// and exactly its fraction digits.
func Format(amount decimal.Decimal, c Currency) string {
	mc := moneyCurrency(c)
	minor := amount.Round(int32(mc.Fraction)).Shift(int32(mc.Fraction))
	if minor.Abs().GreaterThan(maxMinor) {
		return formatWide(amount, mc)
	}
	return mc.Formatter().Format(minor.IntPart())
}

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// formatWide lays out amounts whose minor units do not fit in an int64 the
// way go-money's Formatter does, working on the decimal string instead.
func formatWide(amount decimal.Decimal, mc *money.Currency) string {
	digits := amount.Abs().StringFixed(int32(mc.Fraction))
	whole, frac, _ := strings.Cut(digits, ".")
	if mc.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + mc.Thousand + whole[i:]
		}
	}
	if frac != "" {
		whole += mc.Decimal + frac
	}
	s := strings.Replace(mc.Template, "1", whole, 1)
	s = strings.Replace(s, "$", mc.Grapheme, 1)
	if amount.IsNegative() {
		s = "-" + s
	}
	return s
}

// Symbol returns the bare currency symbol.
func Symbol(c Currency) string {
	return moneyCurrency(c).Grapheme
}
