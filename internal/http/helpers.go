package http

import (
	"strings"

	"spendwise/internal/core"

	"github.com/shopspring/decimal"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// percentOf returns part as a whole percentage of max, for bar widths.
// Any positive part gets at least 1 so it stays visible.
func percentOf(part, max decimal.Decimal) int {
	if !max.IsPositive() || !part.IsPositive() {
		return 0
	}
	p := part.Div(max).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if p < 1 {
		return 1
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// categoryMax returns the largest bucket amount.
func categoryMax(buckets []core.CategoryAmount) decimal.Decimal {
	max := decimal.Zero
	for _, b := range buckets {
		if b.Amount.GreaterThan(max) {
			max = b.Amount
		}
	}
	return max
}

// trendMax returns the largest monthly amount.
func trendMax(months []core.MonthTotal) decimal.Decimal {
	max := decimal.Zero
	for _, m := range months {
		if m.Amount.GreaterThan(max) {
			max = m.Amount
		}
	}
	return max
}
