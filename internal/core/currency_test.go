package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

var tolerance = decimal.RequireFromString("0.000000001")

func TestConvertIdentityIsExact(t *testing.T) {
	amounts := []string{"0", "0.1", "12.345678901234567", "1000000", "0.000001"}
	for _, c := range Currencies() {
		for _, s := range amounts {
			x := decimal.RequireFromString(s)
			got := Convert(x, c, c)
			if !got.Equal(x) || got.Exponent() != x.Exponent() {
				t.Fatalf("Convert(%s, %s, %s) = %s, want exactly %s", s, c, c, got, s)
			}
		}
	}
}

func TestConvertThroughPivot(t *testing.T) {
	x := decimal.RequireFromString("123.45")
	for _, a := range Currencies() {
		for _, b := range Currencies() {
			direct := Convert(x, a, b)
			viaUSD := Convert(Convert(x, a, USD), USD, b)
			if direct.Sub(viaUSD).Abs().GreaterThan(tolerance) {
				t.Fatalf("%s->%s: direct %s, via USD %s", a, b, direct, viaUSD)
			}
		}
	}
}

func TestConvertComposes(t *testing.T) {
	x := decimal.RequireFromString("987.65")
	for _, a := range Currencies() {
		for _, b := range Currencies() {
			for _, c := range Currencies() {
				chained := Convert(Convert(x, a, b), b, c)
				direct := Convert(x, a, c)
				if chained.Sub(direct).Abs().GreaterThan(tolerance) {
					t.Fatalf("%s->%s->%s: chained %s, direct %s", a, b, c, chained, direct)
				}
			}
		}
	}
}

func TestConvertKnownRates(t *testing.T) {
	cases := []struct {
		amount   string
		from, to Currency
		want     string
	}{
		{"92", EUR, USD, "100"},
		{"1", USD, INR, "83.5"},
		{"100", USD, NOK, "1065"},
		{"6.85", DKK, USD, "1"},
	}
	for _, tc := range cases {
		got := Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
		want := decimal.RequireFromString(tc.want)
		if got.Sub(want).Abs().GreaterThan(tolerance) {
			t.Fatalf("Convert(%s, %s, %s) = %s, want %s", tc.amount, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestConvertUnknownCurrencyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unsupported currency")
		}
	}()
	Convert(decimal.NewFromInt(1), "GBP", USD)
}

func TestParseCurrency(t *testing.T) {
	for _, in := range []string{"usd", " EUR ", "Inr", "DKK", "nok"} {
		if _, err := ParseCurrency(in); err != nil {
			t.Fatalf("%q expected ok, got %v", in, err)
		}
	}
	for _, in := range []string{"", "GBP", "EURO"} {
		if _, err := ParseCurrency(in); !errors.Is(err, ErrUnknownCurrency) {
			t.Fatalf("%q expected ErrUnknownCurrency, got %v", in, err)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount string
		cur    Currency
		want   string
	}{
		{"0", USD, "$0.00"},
		{"1234.5", USD, "$1,234.50"},
		{"0.005", USD, "$0.01"},
		{"1234567.891", USD, "$1,234,567.89"},
		{"1234567.891", EUR, "€1,234,567.89"},
		{"1234567.891", INR, "₹1,234,567.89"},
		{"1234567.891", DKK, "kr 1.234.567,89"},
		{"1234567.891", NOK, "1,234,567.89 kr"},
		{"-12.5", EUR, "-€12.50"},
		{"100000000000000000", USD, "$100,000,000,000,000,000.00"},
		{"-100000000000000000.456", DKK, "-kr 100.000.000.000.000.000,46"},
		{"92233720368547758.07", USD, "$92,233,720,368,547,758.07"},
		{"92233720368547758.08", USD, "$92,233,720,368,547,758.08"},
	}
	for _, tc := range cases {
		got := Format(decimal.RequireFromString(tc.amount), tc.cur)
		if got != tc.want {
			t.Fatalf("Format(%s, %s) = %q, want %q", tc.amount, tc.cur, got, tc.want)
		}
	}
}

func TestSymbol(t *testing.T) {
	if got := Symbol(EUR); got != "€" {
		t.Fatalf("Symbol(EUR) = %q", got)
	}
	if got := Symbol(USD); got != "$" {
		t.Fatalf("Symbol(USD) = %q", got)
	}
	for _, c := range Currencies() {
		if Symbol(c) == "" {
			t.Fatalf("empty symbol for %s", c)
		}
	}
}
